// Package logger はアプリケーション全体で使うslogの設定を行います。
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config はログ出力の設定です。
type Config struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json | text
}

// New はConfigに従ってロガーを生成し、slogのデフォルトに設定します。
func New(cfg Config) (*slog.Logger, error) {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg Config) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		h = slog.NewJSONHandler(w, opts)
	case "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	l := slog.New(h)
	slog.SetDefault(l)
	return l, nil
}

// ParseLevel はレベル名をslog.Levelに変換します。空文字はinfoとして扱います。
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
