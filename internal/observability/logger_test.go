package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auth-platform/user-service/internal/observability"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLoggerWithContextBindsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLoggerWithWriter(&buf, "info")

	ctx := observability.WithCorrelationID(context.Background(), "trace-abc")
	logger.WithContext(ctx).Info("hello")

	entry := logLine(t, &buf)
	assert.Equal(t, "trace-abc", entry["trace_id"])
	assert.Equal(t, "hello", entry["message"])
	assert.NotEmpty(t, entry["time"])
}

func TestLoggerWithoutCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLoggerWithWriter(&buf, "info")

	logger.WithContext(context.Background()).Info("no trace")

	entry := logLine(t, &buf)
	_, hasTrace := entry["trace_id"]
	assert.False(t, hasTrace)
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLoggerWithWriter(&buf, "warn")

	logger.Info("dropped")
	assert.Empty(t, buf.Bytes())

	logger.Warn("kept")
	assert.NotEmpty(t, buf.Bytes())
}

func TestLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLoggerWithWriter(&buf, "nonsense")

	logger.Info("visible")
	assert.NotEmpty(t, buf.Bytes())
}

func TestLoggerTimestampsAreUTC(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLoggerWithWriter(&buf, "info")

	logger.Info("tick")

	entry := logLine(t, &buf)
	raw, ok := entry["time"].(string)
	require.True(t, ok)

	ts, err := time.Parse(time.RFC3339Nano, raw)
	require.NoError(t, err)

	_, offset := ts.Zone()
	assert.Zero(t, offset, "log timestamps must be UTC")
}

func TestLoggerWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLoggerWithWriter(&buf, "info").WithComponent("worker")

	logger.Info("msg")

	entry := logLine(t, &buf)
	assert.Equal(t, "worker", entry["component"])
}
