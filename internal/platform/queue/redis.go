package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey はジョブを格納するRedisリストのキーです。
const DefaultRedisKey = "stock_tracker:jobs:enrich"

// RedisQueue はRedisリスト（LPUSH / BRPOP）によるキューです。
// 複数のサーバーインスタンスが同じキーを共有し、各ジョブはいずれか1つのワーカーが処理します。
type RedisQueue struct {
	rdb         *redis.Client
	key         string
	handler     Handler
	workers     int
	pollTimeout time.Duration
	backoff     time.Duration
	newJob      func(stockID uint) Job

	mu     sync.RWMutex
	closed bool

	startOnce sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewRedisQueue はRedisQueueを生成します。keyが空の場合はDefaultRedisKeyを使用します。
func NewRedisQueue(rdb *redis.Client, key string, handler Handler, workers int) *RedisQueue {
	if key == "" {
		key = DefaultRedisKey
	}
	if workers < 1 {
		workers = 1
	}
	return &RedisQueue{
		rdb:         rdb,
		key:         key,
		handler:     handler,
		workers:     workers,
		pollTimeout: 5 * time.Second,
		backoff:     time.Second,
		newJob:      NewJob,
		cancel:      func() {},
	}
}

// Schedule はジョブをJSONとしてリストの先頭に追加します。
func (q *RedisQueue) Schedule(ctx context.Context, stockID uint) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	b, err := json.Marshal(q.newJob(stockID))
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, q.key, b).Err()
}

// Start はリストを監視するワーカーを起動します。
func (q *RedisQueue) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		pollCtx, cancel := context.WithCancel(ctx)
		q.cancel = cancel
		// 取り出したジョブはClose時のポーリング停止で中断させない
		jobCtx := context.WithoutCancel(ctx)
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go q.work(pollCtx, jobCtx)
		}
	})
}

func (q *RedisQueue) work(pollCtx, jobCtx context.Context) {
	defer q.wg.Done()
	for {
		if pollCtx.Err() != nil {
			return
		}

		res, err := q.rdb.BRPop(pollCtx, q.pollTimeout, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if pollCtx.Err() != nil {
				return
			}
			slog.Warn("redis queue poll failed", "key", q.key, "error", err)
			select {
			case <-pollCtx.Done():
				return
			case <-time.After(q.backoff):
			}
			continue
		}

		// BRPOPは [key, value] を返す
		if len(res) != 2 {
			continue
		}
		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			slog.Error("dropping malformed job", "key", q.key, "payload", res[1], "error", err)
			continue
		}
		_ = run(jobCtx, q.handler, job)
	}
}

// Close は新規ジョブの受付とポーリングを停止し、実行中のジョブの完了を待ちます。
// リストに残ったジョブは次に起動したワーカーが処理します。
func (q *RedisQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()

	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
