package service

import (
	"context"

	"news-agent-be/internal/dto"
	"news-agent-be/pkg/news"
)

type INewsService interface {
	GetHeadlines(ctx context.Context, country, category string, limit int) (*dto.GetHeadlinesResponse, error)
}

type newsService struct {
	searchTool news.SearchProvider
}

func NewNewsService(searchTool news.SearchProvider) INewsService {
	return &newsService{searchTool: searchTool}
}

func (ns *newsService) GetHeadlines(ctx context.Context, country, category string, limit int) (*dto.GetHeadlinesResponse, error) {
	articles, err := news.TopHeadlines(ctx, ns.searchTool, country, category, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SourceDTO, 0, len(articles))
	for _, a := range articles {
		out = append(out, dto.SourceDTO{
			Title:   a.Title,
			Link:    a.Link,
			Source:  a.Source,
			Date:    a.Date,
			Snippet: a.Snippet,
		})
	}

	return &dto.GetHeadlinesResponse{
		Country:  country,
		Category: category,
		Articles: out,
	}, nil
}
