package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	level = new(slog.LevelVar)

	mu     sync.RWMutex
	global = newLogger(os.Stderr)
)

func init() {
	// chat output owns stdout, keep diagnostics quiet unless asked for
	level.Set(slog.LevelWarn)
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// L returns the process-wide logger. It always writes to stderr unless
// SetOutput was called.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// SetLevel changes the minimum level of every logger handed out by L.
func SetLevel(lvl slog.Level) {
	level.Set(lvl)
}

// Level reports the current minimum level.
func Level() slog.Level {
	return level.Level()
}

// SetOutput redirects diagnostics, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	global = newLogger(w)
}

// ParseLevel maps debug/info/warn/error (any case) to a slog level.
// Unknown strings fall back to warn.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
