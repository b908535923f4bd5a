package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// GenerateTraceID creates a new trace ID. Request IDs and trace IDs share
// this format so one identifier follows a request through logs and errors.
func GenerateTraceID() string {
	return uuid.New().String()
}

// ContextLogger returns the logger with the trace ID from ctx attached.
// A nil logger falls back to the application logger.
func ContextLogger(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		logger = logger.With(slog.String("trace_id", traceID))
	}
	return logger
}

// WithError returns the logger with the error attached as a field.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With(slog.String("error", err.Error()))
}
