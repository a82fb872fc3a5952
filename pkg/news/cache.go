package news

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachingProvider wraps a SearchProvider with a short-lived in-process cache
// so repeated agent rounds on the same query do not hit the search API twice.
type CachingProvider struct {
	inner SearchProvider
	cache *cache.Cache
}

var _ SearchProvider = &CachingProvider{}

func NewCachingProvider(inner SearchProvider, ttl time.Duration) *CachingProvider {
	return &CachingProvider{
		inner: inner,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (p *CachingProvider) Search(ctx context.Context, query string, limit int) ([]Article, error) {
	key := fmt.Sprintf("%s|%d", query, limit)
	if x, found := p.cache.Get(key); found {
		return x.([]Article), nil
	}

	articles, err := p.inner.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, articles, cache.DefaultExpiration)
	return articles, nil
}
