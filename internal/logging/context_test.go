package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestContextFields_Empty(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))
}

func TestContextFields_OTELTracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(
		trace.WithSampler(trace.AlwaysSample()),
		trace.WithBatcher(exporter),
	)
	tracer := provider.Tracer("test")

	ctx, span := tracer.Start(context.Background(), "tools/call")
	defer span.End()

	fields := ContextFields(ctx)

	sc := span.SpanContext()
	assertFieldExists(t, fields, "trace_id", sc.TraceID().String())
	assertFieldExists(t, fields, "span_id", sc.SpanID().String())
	assertBoolFieldExists(t, fields, "trace_sampled")
}

func TestContextFields_Correlation(t *testing.T) {
	ctx := WithToolName(context.Background(), "inquiry_create")
	ctx = WithSessionID(ctx, "J4RUFE3CMNQ4LC2XZ4PPSN4GOF")
	ctx = WithRequestID(ctx, "req_456")

	fields := ContextFields(ctx)

	assert.Len(t, fields, 3)
	assertFieldExists(t, fields, "tool.name", "inquiry_create")
	assertFieldExists(t, fields, "session.id", "J4RUFE3CMNQ4LC2XZ4PPSN4GOF")
	assertFieldExists(t, fields, "request.id", "req_456")
}

func TestWithID_InvalidIgnored(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"spaces", "req 1"},
		{"newline injection", "req\n{\"level\":\"error\"}"},
		{"slash", "req/1"},
		{"too long", strings.Repeat("a", maxIDLen+1)},
		{"invalid utf8", string([]byte{0xff, 0xfe})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			assert.Equal(t, ctx, WithRequestID(ctx, tt.id))
			assert.Equal(t, ctx, WithSessionID(ctx, tt.id))
			assert.Equal(t, ctx, WithToolName(ctx, tt.id))
		})
	}
}

func TestWithID_InvalidKeepsPrevious(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req_1")
	ctx = WithRequestID(ctx, "bad id")
	assert.Equal(t, "req_1", RequestIDFromContext(ctx))
}

func TestValidateID(t *testing.T) {
	require.NoError(t, ValidateID("abc-123_x.y:z", "requestID"))
	require.NoError(t, ValidateID(strings.Repeat("a", maxIDLen), "requestID"))

	err := ValidateID("", "sessionID")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sessionID cannot be empty")

	err = ValidateID("a b", "requestID")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid characters")

	err = ValidateID(strings.Repeat("a", maxIDLen+1), "requestID")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds max length")
}

func TestFromContext_Missing(t *testing.T) {
	assert.Empty(t, ToolNameFromContext(context.Background()))
	assert.Empty(t, SessionIDFromContext(context.Background()))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestLogger_InContext(t *testing.T) {
	logger := &Logger{zap: zap.NewNop(), config: NewDefaultConfig()}
	ctx := WithLogger(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
}

func TestLogger_FromContextMissing(t *testing.T) {
	retrieved := FromContext(context.Background())
	require.NotNil(t, retrieved)
	assert.NotPanics(t, func() {
		retrieved.Info(context.Background(), "discarded")
	})
}

func assertFieldExists(t *testing.T, fields []zap.Field, key, expected string) {
	t.Helper()
	for _, field := range fields {
		if field.Key == key && field.String == expected {
			return
		}
	}
	t.Errorf("field %q with value %q not found", key, expected)
}

func assertBoolFieldExists(t *testing.T, fields []zap.Field, key string) {
	t.Helper()
	for _, field := range fields {
		// zap stores bools in Integer.
		if field.Key == key && field.Integer == 1 {
			return
		}
	}
	t.Errorf("bool field %q not found", key)
}
