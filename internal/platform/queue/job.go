// Package queue はエンリッチメントジョブの非同期実行基盤を提供します。
// 同一プロセス内のワーカープール（MemoryQueue）と、複数インスタンスで共有する
// Redisリストベースのキュー（RedisQueue）の2つの実装があります。
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrQueueClosed はClose後にScheduleが呼ばれた場合に返されます。
	ErrQueueClosed = errors.New("queue closed")
	// ErrQueueFull はバッファが満杯でジョブを受け付けられない場合に返されます。
	ErrQueueFull = errors.New("queue full")
)

// Job は1銘柄分のエンリッチメント要求です。
type Job struct {
	ID         string    `json:"id"`
	StockID    uint      `json:"stock_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewJob は一意なIDを持つJobを生成します。
func NewJob(stockID uint) Job {
	return Job{
		ID:         uuid.NewString(),
		StockID:    stockID,
		EnqueuedAt: time.Now().UTC(),
	}
}

// Handler はジョブを処理します。エラーはログに出力されるのみで再試行はしません。
type Handler func(ctx context.Context, job Job) error

// run はハンドラーを実行し、結果をログに出力します。
// ハンドラー内のpanicはワーカーを止めないようにエラーへ変換します。
func run(ctx context.Context, h Handler, job Job) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
		attrs := []any{
			"job_id", job.ID,
			"stock_id", job.StockID,
			"wait", start.Sub(job.EnqueuedAt).String(),
			"duration", time.Since(start).String(),
		}
		if err != nil {
			slog.Error("job failed", append(attrs, "error", err)...)
			return
		}
		slog.Info("job completed", attrs...)
	}()

	return h(ctx, job)
}
