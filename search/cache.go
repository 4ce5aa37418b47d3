package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cached memoizes another Searcher's results per holdings set. Market
// snippets change slowly; a TTL cache keeps repeat investment insights
// from burning search quota.
type Cached struct {
	inner Searcher
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewCached wraps inner with a TTL memo.
func NewCached(inner Searcher, ttl time.Duration) (*Cached, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create search cache: %w", err)
	}
	return &Cached{inner: inner, cache: cache, ttl: ttl}, nil
}

func (c *Cached) MarketContext(ctx context.Context, symbols, funds []string) (*Result, error) {
	key := cacheKey(symbols, funds)
	if v, ok := c.cache.Get(key); ok {
		if r, ok := v.(*Result); ok {
			return r, nil
		}
	}

	r, err := c.inner.MarketContext(ctx, symbols, funds)
	if err != nil {
		return nil, err
	}
	if r.SnippetCount > 0 {
		c.cache.SetWithTTL(key, r, int64(len(r.Context))+1, c.ttl)
		c.cache.Wait()
	}
	return r, nil
}

// cacheKey is order-insensitive: the same holdings set maps to the same
// entry regardless of slice order.
func cacheKey(symbols, funds []string) string {
	all := make([]string, 0, len(symbols)+len(funds))
	all = append(all, symbols...)
	all = append(all, funds...)
	sort.Strings(all)
	return strings.Join(all, "|")
}
