// Package logging configures the structured logger used across the client.
// The TUI owns the terminal, so log records go to a file, never stdout.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger with application-specific functionality
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// ParseLevel converts a level name into an slog.Level.
// Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// New creates a text logger writing to w at the given level
func New(level string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	handler := slog.NewTextHandler(w, opts)
	return &Logger{Logger: slog.New(handler)}
}

// Open creates a logger appending to the file at path.
// Parent directories are created with 0o700 and the file with 0o600.
func Open(path, level string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := New(level, f)
	l.closer = f
	return l, nil
}

// Discard returns a logger that drops every record
func Discard() *Logger {
	return New("error", io.Discard)
}

// With returns a child logger that adds args to every record
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), closer: l.closer}
}

// WithSession returns a child logger tagged with a fresh session id
func (l *Logger) WithSession() (*Logger, string) {
	id := uuid.NewString()
	return l.With("session_id", id), id
}

// Close releases the underlying log file, if any
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
