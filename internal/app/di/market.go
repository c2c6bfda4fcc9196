// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"stock_tracker/internal/app/config"
	"stock_tracker/internal/feature/stocks/usecase"
	"stock_tracker/internal/platform/cache"
	"stock_tracker/internal/platform/externalapi/alphavantage"
	"stock_tracker/internal/platform/externalapi/yahoo"
	platformhttp "stock_tracker/internal/platform/http"
)

// NewMarketDataProvider creates the configured market data provider wrapped in the Redis quote cache.
// A nil rdb disables caching.
func NewMarketDataProvider(cfg config.MarketConfig, rdb *redis.Client) (usecase.MarketDataProvider, error) {
	var provider usecase.MarketDataProvider

	switch cfg.Provider {
	case config.ProviderYahoo:
		provider = yahoo.NewProvider(platformhttp.NewHTTPClient(cfg.Timeout))
	case config.ProviderAlphaVantage:
		avCfg := cfg.AlphaVantage
		if avCfg.Timeout <= 0 {
			avCfg.Timeout = cfg.Timeout
		}
		provider = alphavantage.NewProvider(avCfg, platformhttp.NewHTTPClient(avCfg.Timeout))
	default:
		return nil, fmt.Errorf("unknown market provider %q", cfg.Provider)
	}

	return cache.NewCachingQuoteProvider(rdb, cfg.CacheTTL, provider, "quotes"), nil
}
