package adapter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// SetupLogger initializes the slog logger with file output.
// The returned closer releases the log file.
func SetupLogger(cfg *LoggingConfig) (*slog.Logger, io.Closer, error) {
	logPath, err := expandHome(cfg.File)
	if err != nil {
		return nil, nil, err
	}

	// Ensure log directory exists
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return slog.New(newHandler(logFile, cfg.Level)), logFile, nil
}

// newHandler builds a plain-text charm handler; the TUI owns the terminal
// so log output never carries color codes.
func newHandler(w io.Writer, level string) *charmlog.Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           parseLogLevel(level),
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "streamflix",
	})
	handler.SetColorProfile(termenv.Ascii)
	return handler
}

// expandHome expands a leading ~ in path
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// parseLogLevel converts a string log level to a charm log level
func parseLogLevel(level string) charmlog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return charmlog.DebugLevel
	case "INFO":
		return charmlog.InfoLevel
	case "WARN", "WARNING":
		return charmlog.WarnLevel
	case "ERROR":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(newHandler(io.Discard, "ERROR"))
}
