package logger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func resetLogger() {
	logger = zap.NewNop().Sugar()
	initOnce = sync.Once{}
}

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	logger = zap.New(core).Sugar()
	t.Cleanup(resetLogger)

	return logs
}

func TestInit(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			resetLogger()
			require.NoError(t, Init(WithLevel(level)), level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		resetLogger()
		err := Init(WithLevel("loud"))
		assert.Error(t, err)
	})

	t.Run("init only once", func(t *testing.T) {
		resetLogger()

		require.NoError(t, Init(WithLevel("debug")))
		first := logger

		require.NoError(t, Init(WithLevel("error")))
		assert.Same(t, first, logger)
	})
}

func TestLoggingBeforeInit(t *testing.T) {
	resetLogger()

	assert.NotPanics(t, func() {
		Info(context.Background(), "not initialized", "key", "value")
	})
}

func TestLevels(t *testing.T) {
	logs := observe(t)
	ctx := context.Background()

	Debug(ctx, "debug message", "block.height", 1)
	Info(ctx, "info message")
	Warn(ctx, "warn message")
	Error(ctx, "error message")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(1), entries[0].ContextMap()["block.height"])
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestTraceCorrelation(t *testing.T) {
	logs := observe(t)

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	Info(ctx, "traced")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, traceID.String(), fields["trace.id"])
	assert.Equal(t, spanID.String(), fields["span.id"])
}
