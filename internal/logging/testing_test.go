package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// recordingTB captures failures instead of failing the enclosing test.
type recordingTB struct {
	testing.TB
	failed bool
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(string, ...any) { r.failed = true }

func TestTestLogger_Assertions(t *testing.T) {
	tl := NewTestLogger()
	ctx := context.Background()

	tl.Info(ctx, "tool call finished", zap.String("tool", "inquiry_get"), zap.Int("status", 200))
	tl.Trace(ctx, "request envelope")

	tl.AssertLogged(t, zapcore.InfoLevel, "tool call finished")
	tl.AssertLogged(t, TraceLevel, "envelope")
	tl.AssertNotLogged(t, zapcore.ErrorLevel, "tool call finished")
	tl.AssertField(t, "tool call finished", "tool", "inquiry_get")
	tl.AssertNoSecrets(t)
	assert.Len(t, tl.All(), 2)
	assert.Equal(t, 1, tl.FilterMessage("request envelope").Len())

	tl.Reset()
	assert.Empty(t, tl.All())
}

func TestTestLogger_AssertNoSecrets_DetectsSecrets(t *testing.T) {
	tests := []struct {
		name string
		log  func(*TestLogger)
	}{
		{"sensitive key", func(tl *TestLogger) {
			tl.Info(context.Background(), "unsafe", zap.String("password", "secret123"))
		}},
		{"persona key in message", func(tl *TestLogger) {
			tl.Info(context.Background(), "key persona_production_abcdef123456")
		}},
		{"bearer in value", func(tl *TestLogger) {
			tl.Info(context.Background(), "unsafe", zap.String("header", "Bearer abc"))
		}},
		{"webhook secret in value", func(tl *TestLogger) {
			tl.Info(context.Background(), "unsafe", zap.String("payload", "wbhsec_0123456789abcdef"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := NewTestLogger()
			tt.log(tl)

			rec := &recordingTB{TB: t}
			tl.AssertNoSecrets(rec)
			assert.True(t, rec.failed)
		})
	}
}

func TestTestLogger_AssertTraceCorrelation(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "correlated", zap.String("trace_id", "4bf92f3577b34da6a3ce929d0e0e4736"))

	tl.AssertTraceCorrelation(t, "correlated")
}
