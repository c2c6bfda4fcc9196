// Package config loads the application configuration from the environment and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"stock_tracker/internal/platform/db"
	"stock_tracker/internal/platform/externalapi/alphavantage"
	"stock_tracker/internal/platform/logger"
	"stock_tracker/internal/platform/redis"
)

const (
	ProviderYahoo        = "yahoo"
	ProviderAlphaVantage = "alphavantage"

	QueueMemory = "memory"
	QueueRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Log      logger.Config `yaml:"log"`
	Database db.Config     `yaml:"database"`
	Redis    redis.Config  `yaml:"redis"`
	Market   MarketConfig  `yaml:"market"`
	Queue    QueueConfig   `yaml:"queue"`
	Refresh  RefreshConfig `yaml:"refresh"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type MarketConfig struct {
	Provider     string              `yaml:"provider"` // yahoo | alphavantage
	Timeout      time.Duration       `yaml:"timeout"`
	CacheTTL     time.Duration       `yaml:"cache_ttl"`
	AlphaVantage alphavantage.Config `yaml:"alphavantage"`
}

type QueueConfig struct {
	Backend  string `yaml:"backend"` // memory | redis
	Workers  int    `yaml:"workers"`
	Size     int    `yaml:"size"`
	RedisKey string `yaml:"redis_key"`
}

type RefreshConfig struct {
	Cron    string        `yaml:"cron"` // six fields, seconds first; empty disables
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the configuration derived from environment variables and built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            envInt("PORT", 8080),
			ShutdownTimeout: 15 * time.Second,
		},
		Log: logger.Config{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "json"),
		},
		Database: db.LoadConfigFromEnv(),
		Redis:    redis.LoadConfigFromEnv(),
		Market: MarketConfig{
			Provider:     getenv("MARKET_PROVIDER", ProviderYahoo),
			Timeout:      10 * time.Second,
			CacheTTL:     5 * time.Minute,
			AlphaVantage: alphavantage.LoadConfig(),
		},
		Queue: QueueConfig{
			Backend: getenv("QUEUE_BACKEND", QueueMemory),
			Workers: envInt("QUEUE_WORKERS", 4),
			Size:    envInt("QUEUE_SIZE", 256),
		},
		Refresh: RefreshConfig{
			Cron:    os.Getenv("REFRESH_CRON"),
			Timeout: time.Minute,
		},
	}
}

// Load starts from Default, overlays the YAML file at path (if path is non-empty),
// and validates the result. ${VAR} references in the file are expanded from the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	switch c.Database.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q", db.DriverPostgres, db.DriverSQLite, c.Database.Driver))
	}
	switch c.Market.Provider {
	case ProviderYahoo:
	case ProviderAlphaVantage:
		if c.Market.AlphaVantage.APIKey == "" {
			errs = append(errs, errors.New("market.alphavantage.api_key is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("market.provider must be %q or %q, got %q", ProviderYahoo, ProviderAlphaVantage, c.Market.Provider))
	}
	switch c.Queue.Backend {
	case QueueMemory, QueueRedis:
	default:
		errs = append(errs, fmt.Errorf("queue.backend must be %q or %q, got %q", QueueMemory, QueueRedis, c.Queue.Backend))
	}
	if c.Queue.Workers < 1 {
		errs = append(errs, errors.New("queue.workers must be at least 1"))
	}
	if c.Queue.Size < 1 {
		errs = append(errs, errors.New("queue.size must be at least 1"))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
