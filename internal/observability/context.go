// Package observability provides correlation context, structured logging,
// metrics, and tracing for the user service.
package observability

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
)

// WithCorrelationID adds a correlation ID to the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// GetCorrelationID retrieves the correlation ID from context.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// GenerateCorrelationID generates a new correlation ID.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// EnsureCorrelationID ensures the context has a correlation ID.
func EnsureCorrelationID(ctx context.Context) context.Context {
	if GetCorrelationID(ctx) == "" {
		return WithCorrelationID(ctx, GenerateCorrelationID())
	}
	return ctx
}

// PropagateContext creates a fresh background context carrying the parent's
// correlation ID. Used when a side effect must outlive the request that
// triggered it: the returned context is not canceled when the parent is.
func PropagateContext(parent context.Context) context.Context {
	ctx := context.Background()
	if id := GetCorrelationID(parent); id != "" {
		ctx = WithCorrelationID(ctx, id)
	}
	return ctx
}

// GetTraceID extracts the OpenTelemetry trace ID from context, if a span
// is recording. Distinct from the correlation ID, which is request-scoped.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

// GetSpanID extracts the OpenTelemetry span ID from context.
func GetSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasSpanID() {
		return span.SpanContext().SpanID().String()
	}
	return ""
}
