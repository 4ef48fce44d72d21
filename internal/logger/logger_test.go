package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestNew_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "storefront", slog.LevelInfo)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	log.With("order_id", 7).InfoContext(ctx, "order placed")

	rec := decodeLine(t, &buf)
	assert.Equal(t, "order placed", rec["msg"])
	assert.Equal(t, "storefront", rec["service"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", rec["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", rec["span_id"])
	assert.EqualValues(t, 7, rec["order_id"])
}

func TestNew_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "storefront", slog.LevelInfo).InfoContext(context.Background(), "hello")

	rec := decodeLine(t, &buf)
	assert.NotContains(t, rec, "trace_id")
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "storefront", slog.LevelWarn).Info("quiet")
	assert.Zero(t, buf.Len())
}

func TestZapLevel(t *testing.T) {
	assert.Equal(t, "debug", zapLevel(slog.LevelDebug).String())
	assert.Equal(t, "info", zapLevel(slog.LevelInfo).String())
	assert.Equal(t, "warn", zapLevel(slog.LevelWarn).String())
	assert.Equal(t, "error", zapLevel(slog.LevelError).String())
}
