package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

// Tag keys added by the With* helpers.
const (
	KeyOperation = "operation"
	KeyGroup     = "group"
	KeySource    = "source"
)

// WithLogger stores logger in ctx. A nil logger stores Default().
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Lookup returns the logger stored in ctx, if any.
func Lookup(ctx context.Context) (*zerolog.Logger, bool) {
	if ctx == nil {
		return nil, false
	}
	logger, ok := ctx.Value(loggerKey{}).(*zerolog.Logger)
	return logger, ok && logger != nil
}

// FromContext returns the logger stored in ctx, or Default().
func FromContext(ctx context.Context) *zerolog.Logger {
	if logger, ok := Lookup(ctx); ok {
		return logger
	}
	return Default()
}

// WithOperation tags the context logger with the CLI operation being run.
func WithOperation(ctx context.Context, operation string) context.Context {
	return tag(ctx, KeyOperation, operation)
}

// WithGroup tags the context logger with a provenance group ID.
func WithGroup(ctx context.Context, group string) context.Context {
	return tag(ctx, KeyGroup, group)
}

// WithSource tags the context logger with a source ID.
func WithSource(ctx context.Context, source string) context.Context {
	return tag(ctx, KeySource, source)
}

// tag is a no-op for an empty value.
func tag(ctx context.Context, key, value string) context.Context {
	if value == "" {
		return ctx
	}
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}
