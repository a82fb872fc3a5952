package news

import (
	"context"
	"strings"
)

// TopHeadlines fetches current top stories, optionally narrowed by country
// code and category, through whatever provider is configured.
func TopHeadlines(ctx context.Context, p SearchProvider, country, category string, limit int) ([]Article, error) {
	parts := []string{"top news headlines"}
	if category != "" {
		parts = append(parts, category)
	}
	if country != "" && !strings.EqualFold(country, "us") {
		parts = append(parts, strings.ToUpper(country))
	}
	return p.Search(ctx, strings.Join(parts, " "), limit)
}
