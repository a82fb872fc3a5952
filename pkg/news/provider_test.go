package news

import (
	"context"
	"strings"
	"testing"
)

func TestFormatArticlesEmpty(t *testing.T) {
	got := FormatArticles(nil)
	if got != "No news articles found for the query." {
		t.Errorf("FormatArticles(nil) = %q", got)
	}
}

func TestFormatArticles(t *testing.T) {
	got := FormatArticles([]Article{
		{Title: "Big Story", Link: "https://x", Source: "Wire", Date: "today", Snippet: "something happened"},
		{Link: "https://y"},
	})

	for _, want := range []string{
		"1. **Big Story**",
		"Source: Wire | today",
		"something happened",
		"Link: https://x",
		"2. **No title**",
		"Unknown source",
		"No description available",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("formatted output missing %q:\n%s", want, got)
		}
	}
}

func TestTopHeadlinesQuery(t *testing.T) {
	tests := []struct {
		name     string
		country  string
		category string
		want     string
	}{
		{"default", "us", "", "top news headlines"},
		{"category", "us", "technology", "top news headlines technology"},
		{"country", "id", "", "top news headlines ID"},
		{"both", "gb", "business", "top news headlines business GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &capturingProvider{}
			_, err := TopHeadlines(context.Background(), inner, tt.country, tt.category, 5)
			if err != nil {
				t.Fatalf("TopHeadlines() error = %v", err)
			}
			if inner.query != tt.want {
				t.Errorf("query = %q, want %q", inner.query, tt.want)
			}
		})
	}
}

type capturingProvider struct {
	query string
	limit int
}

func (c *capturingProvider) Search(ctx context.Context, query string, limit int) ([]Article, error) {
	c.query = query
	c.limit = limit
	return nil, nil
}
