package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(tracing bool) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(core), tracing), logs
}

func TestFieldsAndError(t *testing.T) {
	log, logs := observed(false)
	log.Warn("rejected", errors.New("boom"),
		map[string]interface{}{"feature": "rerank", "min": "1.23.7"},
		map[string]interface{}{"min": "1.25.0"},
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, zapcore.WarnLevel, e.Level)
	assert.Equal(t, "rejected", e.Message)
	ctx := e.ContextMap()
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "rerank", ctx["feature"])
	assert.Equal(t, "1.25.0", ctx["min"])
}

func TestTraceFields(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	log, logs := observed(true)
	log.InfoWithContext(ctx, "with trace", nil)
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])

	plain, plainLogs := observed(false)
	plain.InfoWithContext(ctx, "without trace", nil)
	assert.NotContains(t, plainLogs.All()[0].ContextMap(), "trace_id")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel(Debug))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(Warning))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel(Error))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNewLoggerClient(t *testing.T) {
	log, err := NewLoggerClient(Config{Level: Debug, ServiceName: "test"})
	require.NoError(t, err)
	assert.True(t, log.Zap.Core().Enabled(zapcore.DebugLevel))
}
