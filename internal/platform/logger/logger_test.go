package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input     string
		expected  slog.Level
		expectErr bool
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "", expected: slog.LevelInfo},
		{input: "INFO", expected: slog.LevelInfo},
		{input: "warning", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "verbose", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			level, err := ParseLevel(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

// newLoggerはslogのデフォルトを書き換えるため、このパッケージのテストは並列実行しない
func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, Config{Level: "warn", Format: "json"})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("stock enriched", "symbol", "AAPL")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "stock enriched", entry["msg"])
	assert.Equal(t, "AAPL", entry["symbol"])
	assert.Equal(t, "WARN", entry["level"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, Config{Format: "text"})
	require.NoError(t, err)

	l.Info("hello", "stock_id", 3)
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "stock_id=3")
}

func TestNewLogger_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "format", cfg: Config{Format: "xml"}},
		{name: "level", cfg: Config{Level: "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := newLogger(&buf, tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, l)
		})
	}
}
