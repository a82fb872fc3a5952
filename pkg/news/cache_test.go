package news

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingProvider struct {
	calls    int
	articles []Article
	err      error
}

func (c *countingProvider) Search(ctx context.Context, query string, limit int) ([]Article, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.articles, nil
}

func TestCachingProviderHitsInnerOnce(t *testing.T) {
	inner := &countingProvider{articles: []Article{{Title: "cached"}}}
	p := NewCachingProvider(inner, time.Minute)

	for i := 0; i < 3; i++ {
		articles, err := p.Search(context.Background(), "same query", 5)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(articles) != 1 || articles[0].Title != "cached" {
			t.Errorf("articles = %+v", articles)
		}
	}

	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
}

func TestCachingProviderKeyIncludesLimit(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachingProvider(inner, time.Minute)

	p.Search(context.Background(), "q", 5)
	p.Search(context.Background(), "q", 10)

	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2 (different limits must not share entries)", inner.calls)
	}
}

func TestCachingProviderDoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{err: errors.New("down")}
	p := NewCachingProvider(inner, time.Minute)

	p.Search(context.Background(), "q", 5)
	p.Search(context.Background(), "q", 5)

	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2 (errors should pass through)", inner.calls)
	}
}
