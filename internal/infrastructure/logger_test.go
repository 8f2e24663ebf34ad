package infrastructure

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JDavidPC/bi-etl/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	dir := t.TempDir()
	logger, path, err := InitializeLogger(config.LoggingConfig{Level: "info", Dir: dir})
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t, `^etl_\d{8}_\d{4}\.log$`, filepath.Base(path))

	logger.Info("collection extracted", slog.String("collection", "listings"), slog.Int("rows", 42))
	require.NoError(t, CloseLogFile())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "level=INFO")
	assert.Contains(t, content, "collection extracted")
	assert.Contains(t, content, "collection=listings")
	assert.Contains(t, content, "rows=42")
	assert.Contains(t, content, "run_id=")
}

func TestInitializeLogger_Once(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	dir := t.TempDir()
	first, _, err := InitializeLogger(config.LoggingConfig{Level: "debug", Dir: dir})
	require.NoError(t, err)

	second, _, err := InitializeLogger(config.LoggingConfig{Level: "error", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.input), tt.input)
	}
}
