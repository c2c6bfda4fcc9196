// Package redis はキャッシュとジョブキューで共有するRedisクライアントを提供します。
package redis

import (
	"context"
	"log/slog"
	"net"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Config はRedis接続設定です。Hostが空の場合、Redisは無効として扱います。
type Config struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LoadConfigFromEnv は環境変数からRedis設定を読み込みます。
func LoadConfigFromEnv() Config {
	cfg := Config{
		Host:     os.Getenv("REDIS_HOST"),
		Port:     os.Getenv("REDIS_PORT"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
	if cfg.Port == "" {
		cfg.Port = "6379"
	}
	if db, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
		cfg.DB = db
	}
	return cfg
}

// Enabled はRedisの接続先が設定されているかを返します。
func (c Config) Enabled() bool {
	return c.Host != ""
}

// Addr は host:port 形式のアドレスを返します。
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewRedisClient はRedisクライアントを生成し、疎通を確認します。
// 接続できない場合はクライアントを閉じてエラーを返します。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	addr := cfg.Addr()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
