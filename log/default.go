package log

import (
	"context"
	"log/slog"
	"os"
)

// DefaultContextProvider returns the default context used by
// context-unaware logging functions (Debug, Info, Warn, Error) and by
// [New]'s returned *Logger when no context is otherwise available.
var DefaultContextProvider = context.TODO

// defaultLog is the package-level logger used by the package-level
// wrapper functions below, reconfigurable via [Config].
var defaultLog = Make(os.Stderr)

// Config reconfigures the package-level default logger in place.
func Config(opts ...Option) {
	defaultLog = defaultLog.Wrap(opts...)
}

// New returns a freshly configured *Logger writing to os.Stderr, for
// callers (such as [github.com/splitbrain/lessgo/less.Compiler]) that
// want their own Logger instance rather than the package-level default.
func New(opts ...Option) *Logger {
	l := Make(os.Stderr, opts...)

	return &l
}

// DebugContext logs a message at Debug level using the default logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.DebugContext(ctx, msg, attrs...)
}

// Debug logs a message at Debug level using the default logger.
func Debug(msg string, attrs ...slog.Attr) {
	DebugContext(DefaultContextProvider(), msg, attrs...)
}

// InfoContext logs a message at Info level using the default logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.InfoContext(ctx, msg, attrs...)
}

// Info logs a message at Info level using the default logger.
func Info(msg string, attrs ...slog.Attr) {
	InfoContext(DefaultContextProvider(), msg, attrs...)
}

// WarnContext logs a message at Warn level using the default logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.WarnContext(ctx, msg, attrs...)
}

// Warn logs a message at Warn level using the default logger.
func Warn(msg string, attrs ...slog.Attr) {
	WarnContext(DefaultContextProvider(), msg, attrs...)
}

// ErrorContext logs a message at Error level using the default logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.ErrorContext(ctx, msg, attrs...)
}

// Error logs a message at Error level using the default logger.
func Error(msg string, attrs ...slog.Attr) {
	ErrorContext(DefaultContextProvider(), msg, attrs...)
}

// With returns a new [Logger], derived from the default logger, that
// includes the given attributes in every subsequent log message.
func With(attrs ...slog.Attr) Logger {
	return defaultLog.With(attrs...)
}
