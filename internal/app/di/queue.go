package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"stock_tracker/internal/app/config"
	"stock_tracker/internal/feature/stocks/usecase"
	"stock_tracker/internal/platform/queue"
)

// JobQueue is the background queue running enrichment jobs.
type JobQueue interface {
	usecase.JobScheduler
	Start(ctx context.Context)
	Close(ctx context.Context) error
}

// NewJobQueue creates a JobQueue implementation.
// If the redis backend is configured and Redis is available, it returns a Redis-backed queue.
// Otherwise, it falls back to the in-process worker pool.
func NewJobQueue(cfg config.QueueConfig, rdb *redis.Client, handler queue.Handler) JobQueue {
	if cfg.Backend == config.QueueRedis {
		if rdb != nil {
			return queue.NewRedisQueue(rdb, cfg.RedisKey, handler, cfg.Workers)
		}
		slog.Warn("redis queue requested but Redis is unavailable, using in-memory queue")
	}
	return queue.NewMemoryQueue(handler, cfg.Workers, cfg.Size)
}

// EnrichJobHandler adapts an Enricher to the queue handler signature.
func EnrichJobHandler(e usecase.Enricher) queue.Handler {
	return func(ctx context.Context, job queue.Job) error {
		return e.Enrich(ctx, job.StockID)
	}
}
