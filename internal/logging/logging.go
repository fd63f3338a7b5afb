// Package logging provides structured logging using Go's slog package.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// RunIDKey is the context key for tagging run IDs.
	RunIDKey ContextKey = "run_id"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
)

func init() {
	// Initialize with a default logger (JSON format, Info level)
	InitLogger(LevelInfo, FormatJSON)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// ParseLevel maps a config or flag value to a Level. Unknown names map to LevelInfo.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// ParseFormat maps a config or flag value to a Format.
func ParseFormat(s string) Format {
	if s == "text" {
		return FormatText
	}
	return FormatJSON
}

// InitLogger initializes the global logger with the specified level and format.
// Output goes to stderr; stdout is reserved for documents.
func InitLogger(level Level, format Format) {
	InitLoggerWriter(os.Stderr, level, format)
}

// InitLoggerWriter initializes the global logger writing to w.
func InitLoggerWriter(w io.Writer, level Level, format Format) {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Customize timestamp format
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// GetLogger returns the global logger instance.
func GetLogger() *slog.Logger {
	return defaultLogger
}

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// LoggerFromContext returns a logger with context values attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if runID := GetRunID(ctx); runID != "" {
		logger = logger.With("run_id", runID)
	}
	return logger
}

// Helper functions for common logging patterns

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// InfoContext logs an info message with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Info(msg, args...)
}

// WarnContext logs a warning message with context.
func WarnContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Warn(msg, args...)
}

// ErrorContext logs an error message with context.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Error(msg, args...)
}

// BatchProgress logs the start of a batch.
func BatchProgress(ctx context.Context, offset, total int, args ...any) {
	percent := 100
	if total > 0 {
		percent = offset * 100 / total
	}
	allArgs := []any{
		"offset", offset,
		"total", total,
		"percent", percent,
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Info("batch_progress", allArgs...)
}

// Retagging logs a sentence that already carried analyses before its batch started.
func Retagging(text string, args ...any) {
	allArgs := []any{
		"text", text,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Warn("retagging", allArgs...)
}

// UnknownCode logs a grammar code that a crosswalk table does not know.
func UnknownCode(crosswalk, code string, args ...any) {
	allArgs := []any{
		"crosswalk", crosswalk,
		"code", code,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Warn("unknown_code", allArgs...)
}

// Drift logs a token whose claimed content differs from the text at its offset.
func Drift(token, recomputed string, offset int, args ...any) {
	allArgs := []any{
		"token", token,
		"recomputed", recomputed,
		"offset", offset,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Warn("drift", allArgs...)
}

// SkippedToken logs a token the aligner could not place but did not treat as fatal.
func SkippedToken(kind, text, expected string, args ...any) {
	allArgs := []any{
		"kind", kind,
		"token", text,
		"expected", expected,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("skipped_token", allArgs...)
}

// MatchFault logs a batch aborted because a token could not be aligned.
func MatchFault(ctx context.Context, offset int, err error, args ...any) {
	allArgs := []any{
		"offset", offset,
		"error", err.Error(),
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Error("match_fault", allArgs...)
}

// TransportFault logs a batch aborted because the tagging call failed.
func TransportFault(ctx context.Context, backend string, offset int, err error, args ...any) {
	allArgs := []any{
		"backend", backend,
		"offset", offset,
		"error", err.Error(),
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Error("transport_fault", allArgs...)
}

// Salvage logs the offset a run stopped at so it can be resumed later.
func Salvage(ctx context.Context, offset int, reason string, args ...any) {
	allArgs := []any{
		"offset", offset,
		"reason", reason,
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Info("salvage", allArgs...)
}
