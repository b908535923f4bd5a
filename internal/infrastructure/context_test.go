package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otta/internal/shared/testutil"
)

func TestGenerateTraceID(t *testing.T) {
	first := GenerateTraceID()
	second := GenerateTraceID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestContextLoggerAttachesTraceID(t *testing.T) {
	logger, captured := testutil.NewTestLogger(t)
	ctx := WithTraceID(context.Background(), "trace-123")

	ContextLogger(ctx, logger).Info("processing")

	records := captured.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "trace-123", records[0].Attrs["trace_id"])
}

func TestContextLoggerWithoutTraceID(t *testing.T) {
	logger, captured := testutil.NewTestLogger(t)

	ContextLogger(context.Background(), logger).Info("processing")

	records := captured.Records()
	require.Len(t, records, 1)
	_, ok := records[0].Attrs["trace_id"]
	assert.False(t, ok)
}

func TestWithError(t *testing.T) {
	logger, captured := testutil.NewTestLogger(t)

	WithError(logger, assert.AnError).Error("export failed")

	records := captured.Records()
	require.Len(t, records, 1)
	assert.Equal(t, assert.AnError.Error(), records[0].Attrs["error"])
}

func TestWithErrorNil(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	assert.Same(t, logger, WithError(logger, nil))
}
