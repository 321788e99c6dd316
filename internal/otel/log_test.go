package otel

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTraceContextFromNoSpan(t *testing.T) {
	traceID, spanID := TraceContextFrom(context.Background())
	assert.Empty(t, traceID)
	assert.Empty(t, spanID)
}

func TestLogTraceFieldsNoPanic(t *testing.T) {
	logger := zerolog.New(io.Discard)
	ev := logger.Info()
	LogTraceFields(context.Background())(ev)
	ev.Msg("done")
}
