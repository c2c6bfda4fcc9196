// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger は依存先（DB、Redisなど）の疎通確認を行います。
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc は関数をPingerとして扱うためのアダプターです。
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler はサービスヘルスチェック用の /healthz エンドポイントを処理します。
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler は名前付きの依存先チェックを持つHealthHandlerを生成します。
// checksが空の場合、プロセスが応答できれば常に正常と判定します。
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Health はHTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// 依存先のいずれかが応答しない場合は503を返します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}

	body := gin.H{"status": "ok"}
	if status != http.StatusOK {
		body["status"] = "unavailable"
	}
	if len(results) > 0 {
		body["checks"] = results
	}
	c.JSON(status, body)
}

// Hello は疎通確認用の固定レスポンスを返します。
func Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"Hello": "World"})
}
