package di

import (
	"context"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"stock_tracker/internal/platform/redis"
)

// OpenRedis returns a connected client, or nil when Redis is not configured or unreachable.
// Callers treat nil as "run without cache and with the in-memory queue".
func OpenRedis(ctx context.Context, cfg redis.Config) *goredis.Client {
	if !cfg.Enabled() {
		slog.Info("Redis not configured")
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rdb, err := redis.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
		return nil
	}
	return rdb
}
