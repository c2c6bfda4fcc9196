// Package router はアプリケーションのルーティングを定義します。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	stockhandler "stock_tracker/internal/feature/stocks/transport/handler"
	"stock_tracker/internal/platform/http/handler"
	"stock_tracker/web"
)

// Options はルーターの任意設定です。
type Options struct {
	// CORSOrigins が空でない場合、指定オリジンからのブラウザリクエストを許可します。
	CORSOrigins []string
}

func NewRouter(stocks *stockhandler.StockHandler, health *handler.HealthHandler, opts Options) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(web.MustTemplates())

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: opts.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.GET("/hello", handler.Hello)

	// ダッシュボード
	r.GET("/", stocks.Dashboard)
	// 銘柄登録（エンリッチメントは非同期）
	r.POST("/stock", stocks.Create)

	return r
}
