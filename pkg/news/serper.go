package news

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultSerperURL = "https://google.serper.dev/search"

// SerperProvider searches news through the Serper API.
type SerperProvider struct {
	URL    string
	APIKey string
	Client *http.Client
}

var _ SearchProvider = &SerperProvider{}

func NewSerperProvider(apiKey string) *SerperProvider {
	return &SerperProvider{
		URL:    defaultSerperURL,
		APIKey: apiKey,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type serperRequest struct {
	Q          string `json:"q"`
	SearchType string `json:"search_type"`
}

type serperResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Source  string `json:"source"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

type serperResponse struct {
	Organic []serperResult `json:"organic"`
}

func (p *SerperProvider) Search(ctx context.Context, query string, limit int) ([]Article, error) {
	payload, err := json.Marshal(serperRequest{
		Q:          query,
		SearchType: "news",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.URL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var serperResp serperResponse
	if err := json.Unmarshal(bodyBytes, &serperResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	results := serperResp.Organic
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	articles := make([]Article, len(results))
	for i, r := range results {
		articles[i] = Article{
			Title:   r.Title,
			Link:    r.Link,
			Source:  r.Source,
			Date:    r.Date,
			Snippet: r.Snippet,
		}
	}

	return articles, nil
}
