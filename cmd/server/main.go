package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stock_tracker/internal/app/config"
	"stock_tracker/internal/app/di"
	"stock_tracker/internal/app/router"
	"stock_tracker/internal/feature/stocks/adapters"
	stockhandler "stock_tracker/internal/feature/stocks/transport/handler"
	"stock_tracker/internal/feature/stocks/usecase"
	"stock_tracker/internal/platform/db"
	"stock_tracker/internal/platform/http/handler"
	"stock_tracker/internal/platform/logger"
	"stock_tracker/internal/platform/scheduler"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Run the stock tracker HTTP server",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to a YAML config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	if _, err := logger.New(cfg.Log); err != nil {
		return err
	}

	// db
	gdb, err := db.Open(cfg.Database, &adapters.StockModel{})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Println("[ERROR] Failed to close database:", err)
		}
	}()

	// Redis（キャッシュと共有キュー、未設定なら無効）
	rdb := di.OpenRedis(ctx, cfg.Redis)
	if rdb == nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
	} else {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository / Provider
	stockRepo := adapters.NewStockRepository(gdb)
	provider, err := di.NewMarketDataProvider(cfg.Market, rdb)
	if err != nil {
		return err
	}

	// Usecase
	enrichUC := usecase.NewEnrichUsecase(stockRepo, provider)
	jobs := di.NewJobQueue(cfg.Queue, rdb, di.EnrichJobHandler(enrichUC))
	stockUC := usecase.NewStockUsecase(stockRepo, jobs)
	refreshUC := usecase.NewRefreshUsecase(stockRepo, jobs, enrichUC)

	// ワーカーはシグナル受信後も実行中のジョブを終えられるよう独立したcontextで動かす
	jobs.Start(context.WithoutCancel(ctx))

	// 定期リフレッシュ
	sched := scheduler.New(ctx, refreshUC.ScheduleAll, cfg.Refresh.Timeout)
	if err := sched.Register(cfg.Refresh.Cron); err != nil {
		return err
	}
	sched.Start()

	// Handler
	checks := map[string]handler.Pinger{
		"database": handler.PingerFunc(func(ctx context.Context) error { return db.Ping(ctx, gdb) }),
	}
	if rdb != nil {
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	stockH := stockhandler.NewStockHandler(stockUC)
	healthH := handler.NewHealthHandler(checks)

	// ルータ生成
	r := router.NewRouter(stockH, healthH, router.Options{CORSOrigins: cfg.Server.CORSOrigins})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Println("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// 新規リクエストを止めてから、スケジューラーとキューを順に止める
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("[ERROR] HTTP server shutdown:", err)
	}
	sched.Stop(shutdownCtx)
	if err := jobs.Close(shutdownCtx); err != nil {
		log.Println("[WARN] job queue did not drain:", err)
	}
	return nil
}
