package logger

import (
	"io"
	"log/slog"
	"os"
)

// NewTestLogger creates a logger for tests. It discards everything below
// WARN; set TEST_DEBUG to see debug output on stdout.
func NewTestLogger() *slog.Logger {
	if os.Getenv("TEST_DEBUG") != "" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
