// Package cache provides caching decorators for the market data providers.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/feature/stocks/usecase"
)

// CachingQuoteProvider decorates a MarketDataProvider with Redis caching.
// Refreshing many symbols in a short window hits the upstream API once per symbol.
type CachingQuoteProvider struct {
	inner     usecase.MarketDataProvider
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

// CachingQuoteProvider must satisfy the provider interface it decorates.
var _ usecase.MarketDataProvider = (*CachingQuoteProvider)(nil)

// NewCachingQuoteProvider decorates a MarketDataProvider with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "quotes".
// A nil rdb disables caching entirely.
func NewCachingQuoteProvider(rdb *redis.Client, ttl time.Duration, inner usecase.MarketDataProvider, namespace string) *CachingQuoteProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "quotes"
	}
	return &CachingQuoteProvider{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// GetQuote returns the cached quote for symbol, falling back to the inner provider.
func (c *CachingQuoteProvider) GetQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.GetQuote(ctx, symbol)
	}

	key := c.cacheKey(symbol)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var q entity.Quote
		if err := json.Unmarshal(b, &q); err == nil {
			return &q, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to provider
	q, err := c.inner.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(q); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.expiration()).Err()
	}

	return q, nil
}

// Invalidate drops the cached quote for symbol.
func (c *CachingQuoteProvider) Invalidate(ctx context.Context, symbol string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.cacheKey(symbol)).Err()
}

// expiration caps the TTL so an entry never survives the next market close.
func (c *CachingQuoteProvider) expiration() time.Duration {
	return min(c.ttl, TimeUntilNextMarketClose(c.now()))
}

// cacheKey generates the cache key for a symbol.
func (c *CachingQuoteProvider) cacheKey(symbol string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(strings.ToUpper(symbol)))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
