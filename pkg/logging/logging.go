// Package logging provides subsystem-tagged structured logging for the
// whole application on top of log/slog.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Level names accepted by Init and the --log-level flag.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	// Quiet default until Init runs; CLI commands that only print results
	// should not emit log noise on stderr.
	logger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ParseLevel maps a level name to a slog.Level, defaulting to Info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init configures the process-wide logger. JSON output is used when
// jsonFormat is true, otherwise a human-readable text handler.
func Init(w io.Writer, level string, jsonFormat bool) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if jsonFormat {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	logger.Store(slog.New(h))
}

func log(level slog.Level, subsystem, format string, args ...any) {
	l := logger.Load()
	if !l.Enabled(context.Background(), level) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.Log(context.Background(), level, msg, slog.String("subsystem", subsystem))
}

// Debug logs a debug message for the given subsystem.
func Debug(subsystem, format string, args ...any) {
	log(slog.LevelDebug, subsystem, format, args...)
}

// Info logs an informational message for the given subsystem.
func Info(subsystem, format string, args ...any) {
	log(slog.LevelInfo, subsystem, format, args...)
}

// Warn logs a warning for the given subsystem.
func Warn(subsystem, format string, args ...any) {
	log(slog.LevelWarn, subsystem, format, args...)
}

// Error logs an error for the given subsystem.
func Error(subsystem, format string, args ...any) {
	log(slog.LevelError, subsystem, format, args...)
}
