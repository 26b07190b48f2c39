package services

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	ordinalKey   contextKey = "ordinal"
)

// WithRequestID annotates context with a submission correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithOrdinal annotates context with the zero-based position of a batch item.
func WithOrdinal(ctx context.Context, ordinal int) context.Context {
	if ordinal < 0 {
		return ctx
	}
	return context.WithValue(ctx, ordinalKey, ordinal)
}

// OrdinalFromContext returns the batch item position if present.
func OrdinalFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(ordinalKey).(int)
	return v, ok
}
