package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stock_tracker/internal/app/config"
	"stock_tracker/internal/app/di"
	"stock_tracker/internal/feature/stocks/adapters"
	"stock_tracker/internal/feature/stocks/usecase"
	"stock_tracker/internal/platform/db"
	"stock_tracker/internal/platform/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:          "refresh",
		Short:        "Re-enrich every tracked stock once and exit",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to a YAML config file")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall deadline for the refresh run")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	if _, err := logger.New(cfg.Log); err != nil {
		return err
	}

	gdb, err := db.Open(cfg.Database, &adapters.StockModel{})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close(gdb) }()

	rdb := di.OpenRedis(ctx, cfg.Redis)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	provider, err := di.NewMarketDataProvider(cfg.Market, rdb)
	if err != nil {
		return err
	}

	stockRepo := adapters.NewStockRepository(gdb)
	enrichUC := usecase.NewEnrichUsecase(stockRepo, provider)
	uc := usecase.NewRefreshUsecase(stockRepo, nil, enrichUC)

	if err := uc.RefreshAll(ctx); err != nil {
		return err
	}
	log.Println("refresh ok")
	return nil
}
