// Package debug provides env-gated debug logging over log/slog.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	mu     sync.RWMutex
)

// Init enables or disables debug logging. When enabled, logs are
// written to stderr as slog text records; when disabled they are
// discarded.
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	if enable {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// InitFromEnv enables debug logging when QUILL_DEBUG is set.
func InitFromEnv() {
	Init(os.Getenv("QUILL_DEBUG") != "")
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Error(msg, args...)
}
