package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchkit/internal/infra/config"
)

func TestNewTextLogger(t *testing.T) {
	log, closer, err := New(config.LoggerConfig{Level: "debug", Format: "text", Output: "stderr"})
	require.NoError(t, err)
	defer closer()
	assert.True(t, log.Enabled(nil, slog.LevelDebug))
}

func TestNewJSONLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	log, closer, err := New(config.LoggerConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("hello", "k", "v")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestDiscardIsSilent(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("dropped") })
}
