package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewResource(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.ServiceVersion = "1.0.0"

	res, err := newResource(cfg)
	require.NoError(t, err)

	attrs := map[string]string{}
	for _, attr := range res.Attributes() {
		attrs[string(attr.Key)] = attr.Value.AsString()
	}
	assert.Equal(t, "persona-mcp", attrs["service.name"])
	assert.Equal(t, "1.0.0", attrs["service.version"])
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "collector:4318", stripScheme("https://collector:4318"))
	assert.Equal(t, "collector:4318", stripScheme("http://collector:4318"))
	assert.Equal(t, "collector:4317", stripScheme("collector:4317"))
}

func TestNewTracerProvider_Sampling(t *testing.T) {
	cfg := NewDefaultConfig()
	res, err := newResource(cfg)
	require.NoError(t, err)

	tests := []struct {
		name    string
		rate    float64
		sampled bool
	}{
		{"always", 1.0, true},
		{"never", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg.Sampling.Rate = tt.rate
			tp, err := newTracerProvider(context.Background(), cfg, res, tracetest.NewInMemoryExporter())
			require.NoError(t, err)
			defer func() { _ = tp.Shutdown(context.Background()) }()

			_, span := tp.Tracer("test").Start(context.Background(), "op")
			assert.Equal(t, tt.sampled, span.SpanContext().IsSampled())
			span.End()
		})
	}
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Metrics.Enabled = false

	mp, err := newMeterProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, mp)
}
