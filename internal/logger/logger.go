package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is the diagnostic channel for the whole program. Everything it
// emits lands on stderr (or wherever the caller pointed it); the primary
// output channel (reports on stdout) is never touched by a Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Format selects the wire shape of log output.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatPretty Format = "pretty"
)

type slogLogger struct {
	l *slog.Logger
}

// New builds a Logger writing to w in the given format at the given level.
// Unknown formats fall back to text.
func New(w io.Writer, format Format, level slog.Level) Logger {
	var h slog.Handler
	switch format {
	case FormatJSON:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case FormatPretty:
		h = NewPrettyHandler(w, level)
	default:
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	return &slogLogger{l: slog.New(h)}
}

// Default is the stderr pretty logger at info level, what the CLI uses when
// no logging flags are given.
func Default() Logger {
	return New(os.Stderr, FormatPretty, slog.LevelInfo)
}

// Nop returns a Logger that discards everything. Library code accepts nil
// loggers by substituting this.
func Nop() Logger {
	return &slogLogger{l: slog.New(slog.DiscardHandler)}
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

type ctxKey struct{}

// WithContext attaches log to ctx.
func WithContext(ctx context.Context, log Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the Logger attached to ctx, or Default when none is.
func FromContext(ctx context.Context) Logger {
	if log, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return log
	}
	return Default()
}

// ParseLevel maps a level name to its slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
