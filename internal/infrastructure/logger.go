// Package infrastructure wires the process-wide log sink: one slog logger,
// initialized once per run, writing plain text lines to a timestamped file
// and mirroring to the console.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JDavidPC/bi-etl/internal/config"
)

var (
	globalLogger     *slog.Logger
	globalLoggerOnce sync.Once
	globalLogFile    *os.File
	logFileMu        sync.Mutex
)

// InitializeLogger creates and configures the global slog logger. The log
// file is named after the run start time (etl_YYYYMMDD_HHMM.log) so each run
// leaves its own file. Returns the logger and the log file path.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, string, error) {
	var err error
	var path string
	globalLoggerOnce.Do(func() {
		globalLogger, path, err = createLogger(cfg)
		if globalLogger != nil {
			slog.SetDefault(globalLogger)
		}
	})
	return globalLogger, path, err
}

// GetLogger returns the global logger, or the default slog logger when
// InitializeLogger has not been called (tests mostly).
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

func createLogger(cfg config.LoggingConfig) (*slog.Logger, string, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create log directory %s: %w", cfg.Dir, err)
	}

	path := filepath.Join(cfg.Dir, fmt.Sprintf("etl_%s.log", time.Now().Format("20060102_1504")))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	globalLogFile = file

	opts := &slog.HandlerOptions{Level: ParseLogLevel(cfg.Level)}
	// Text handler on purpose: the log contract is one human-readable line
	// per event with a severity tag, not machine-readable JSON.
	handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, file), opts)

	logger := slog.New(handler).With(slog.String("run_id", uuid.NewString()))
	return logger, path, nil
}

// ParseLogLevel converts a string log level to slog.Level.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// CloseLogFile closes the global log file if open. Called on shutdown.
func CloseLogFile() error {
	logFileMu.Lock()
	defer logFileMu.Unlock()

	if globalLogFile != nil {
		err := globalLogFile.Close()
		globalLogFile = nil
		return err
	}
	return nil
}

// ResetLoggerForTesting resets the global logger state between tests.
func ResetLoggerForTesting() {
	CloseLogFile()
	globalLogger = nil
	globalLoggerOnce = sync.Once{}
}
