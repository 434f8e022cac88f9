package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/auth-platform/user-service/internal/observability"
)

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, observability.GetCorrelationID(ctx))

	ctx = observability.WithCorrelationID(ctx, "corr-123")
	assert.Equal(t, "corr-123", observability.GetCorrelationID(ctx))

	ctx = observability.WithCorrelationID(ctx, "corr-456")
	assert.Equal(t, "corr-456", observability.GetCorrelationID(ctx))
}

func TestGenerateCorrelationID(t *testing.T) {
	id1 := observability.GenerateCorrelationID()
	id2 := observability.GenerateCorrelationID()

	assert.NotEmpty(t, id1)
	assert.NotEmpty(t, id2)
	assert.NotEqual(t, id1, id2)
}

func TestEnsureCorrelationID(t *testing.T) {
	ctx := observability.EnsureCorrelationID(context.Background())
	assert.NotEmpty(t, observability.GetCorrelationID(ctx))

	ctx = observability.WithCorrelationID(context.Background(), "existing")
	ctx = observability.EnsureCorrelationID(ctx)
	assert.Equal(t, "existing", observability.GetCorrelationID(ctx))
}

func TestPropagateContext(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	parent = observability.WithCorrelationID(parent, "corr-1")

	detached := observability.PropagateContext(parent)
	cancel()

	// The propagated context keeps the correlation id but not cancellation.
	assert.Equal(t, "corr-1", observability.GetCorrelationID(detached))
	assert.NoError(t, detached.Err())
}

func TestContextValueIsolation(t *testing.T) {
	ctx1 := observability.WithCorrelationID(context.Background(), "corr-1")
	ctx2 := observability.WithCorrelationID(context.Background(), "corr-2")

	assert.Equal(t, "corr-1", observability.GetCorrelationID(ctx1))
	assert.Equal(t, "corr-2", observability.GetCorrelationID(ctx2))
}

func TestContextChaining(t *testing.T) {
	ctx := observability.WithCorrelationID(context.Background(), "corr")
	childCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	assert.Equal(t, "corr", observability.GetCorrelationID(childCtx))
}

func TestTraceIDWithoutSpan(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, observability.GetTraceID(ctx))
	assert.Empty(t, observability.GetSpanID(ctx))
}
