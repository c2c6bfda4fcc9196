package queue

import (
	"context"
	"sync"
)

// MemoryQueue はバッファ付きチャネルと固定数のワーカーによるプロセス内キューです。
// プロセスが終了すると未処理のジョブは失われます。
type MemoryQueue struct {
	jobs    chan Job
	handler Handler
	workers int

	mu     sync.RWMutex
	closed bool

	startOnce sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewMemoryQueue は workers 個のワーカーと size 件のバッファを持つキューを生成します。
// ワーカーはStartを呼ぶまで起動しません。
func NewMemoryQueue(handler Handler, workers, size int) *MemoryQueue {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 1
	}
	return &MemoryQueue{
		jobs:    make(chan Job, size),
		handler: handler,
		workers: workers,
		cancel:  func() {},
	}
}

// Start はワーカーを起動します。ジョブはリクエストではなくctxから派生したcontextで実行されます。
func (q *MemoryQueue) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(ctx)
		q.cancel = cancel
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go q.work(ctx)
		}
	})
}

func (q *MemoryQueue) work(ctx context.Context) {
	defer q.wg.Done()
	for job := range q.jobs {
		_ = run(ctx, q.handler, job)
	}
}

// Schedule はジョブを登録します。ブロックせず、満杯の場合はErrQueueFullを返します。
func (q *MemoryQueue) Schedule(_ context.Context, stockID uint) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- NewJob(stockID):
		return nil
	default:
		return ErrQueueFull
	}
}

// Len はバッファ内の未処理ジョブ数を返します。
func (q *MemoryQueue) Len() int {
	return len(q.jobs)
}

// Close は新規ジョブの受付を停止し、登録済みジョブの完了を待ちます。
// ctxが先に終了した場合、実行中のジョブのcontextをキャンセルしてctx.Err()を返します。
func (q *MemoryQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		return ctx.Err()
	}
}
