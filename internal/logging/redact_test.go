package logging

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fyrsmithlabs/persona-mcp/internal/config"
)

func TestSecretField(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := &Logger{zap: zap.New(core), config: NewDefaultConfig()}

	logger.Info(context.Background(), "config loaded",
		Secret("api_key", config.Secret("persona_sandbox_abc123")))

	logs := observed.All()
	require.Len(t, logs, 1)

	field := logs[0].Context[0]
	marshaler, ok := field.Interface.(zapcore.ObjectMarshaler)
	require.True(t, ok)
	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, marshaler.MarshalLogObject(enc))
	assert.Equal(t, "[REDACTED:22]", enc.Fields["api_key"])
}

func TestRedactedString(t *testing.T) {
	field := RedactedString("idempotency_key", "0b4c6f7e-6d3e-4a8a-9a57-1c1d2f0e9b11")
	assert.Equal(t, "[REDACTED:36]", field.String)
}

func encodeEntry(t *testing.T, enc zapcore.Encoder, msg string, fields ...zapcore.Field) map[string]any {
	t.Helper()
	buf, err := enc.EncodeEntry(zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Unix(0, 0), Message: msg}, fields)
	require.NoError(t, err)
	defer buf.Free()

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestRedactingEncoder_EntryFields(t *testing.T) {
	encoder, err := NewRedactingEncoder(newEncoder("json"), NewDefaultConfig().Redaction)
	require.NoError(t, err)

	out := encodeEntry(t, encoder, "using key persona_sandbox_0123456789abcdef",
		zap.String("Password", "hunter2"),
		zap.String("api_key", "anything"),
		zap.Int("token", 42),
		zap.String("detail", "Authorization: Bearer abc.def.ghi"),
		zap.String("webhook", "wbhsec_ABCDEFGH12345678"),
		zap.String("tool", "account_get"),
	)

	assert.Equal(t, "using key [REDACTED:pattern]", out["msg"])
	assert.Equal(t, "[REDACTED]", out["Password"])
	assert.Equal(t, "[REDACTED]", out["api_key"])
	assert.Equal(t, "[REDACTED]", out["token"])
	assert.Equal(t, "Authorization: [REDACTED:pattern]", out["detail"])
	assert.Equal(t, "[REDACTED:pattern]", out["webhook"])
	assert.Equal(t, "account_get", out["tool"])
}

func TestRedactingEncoder_ContextFields(t *testing.T) {
	encoder, err := NewRedactingEncoder(newEncoder("json"), NewDefaultConfig().Redaction)
	require.NoError(t, err)

	clone := encoder.Clone()
	clone.AddString("secret", "shh")
	clone.AddString("base_url", "https://withpersona.com/api/v1?api_key=persona_sandbox_0123456789abcdef")
	require.NoError(t, clone.AddReflected("credential", map[string]string{"k": "v"}))
	clone.AddByteString("private_key", []byte("-----BEGIN"))

	out := encodeEntry(t, clone, "ok")
	assert.Equal(t, "[REDACTED]", out["secret"])
	assert.Equal(t, "[REDACTED]", out["credential"])
	assert.Equal(t, "[REDACTED]", out["private_key"])
	assert.NotContains(t, out["base_url"], "0123456789abcdef")
}

func TestRedactingEncoder_Disabled(t *testing.T) {
	encoder, err := NewRedactingEncoder(newEncoder("json"), RedactionConfig{Enabled: false})
	require.NoError(t, err)

	out := encodeEntry(t, encoder, "plain", zap.String("password", "visible"))
	assert.Equal(t, "visible", out["password"])
}

func TestNewRedactingEncoder_Compiles(t *testing.T) {
	cfg := NewDefaultConfig()
	encoder, err := NewRedactingEncoder(newEncoder("json"), cfg.Redaction)

	require.NoError(t, err)
	assert.Len(t, encoder.redactFields, len(cfg.Redaction.Fields))
	assert.Len(t, encoder.redactRegex, len(cfg.Redaction.Patterns))
}

func TestNewRedactingEncoder_InvalidPattern(t *testing.T) {
	cfg := RedactionConfig{
		Enabled:  true,
		Fields:   []string{"password"},
		Patterns: []string{`(?i)bearer\s+\S+`, "[invalid("},
	}

	encoder, err := NewRedactingEncoder(newEncoder("json"), cfg)

	require.Error(t, err)
	assert.Nil(t, encoder)
	assert.Contains(t, err.Error(), "invalid redaction pattern")
	assert.Contains(t, err.Error(), "[invalid(")
}

func TestNewRedactingEncoder_PatternTooLong(t *testing.T) {
	cfg := RedactionConfig{
		Enabled:  true,
		Patterns: []string{strings.Repeat("a", maxPatternLen+1)},
	}

	encoder, err := NewRedactingEncoder(newEncoder("json"), cfg)

	require.Error(t, err)
	assert.Nil(t, encoder)
	assert.Contains(t, err.Error(), "pattern too long")
}

func TestNewRedactingEncoder_DisabledSkipsValidation(t *testing.T) {
	cfg := RedactionConfig{
		Enabled:  false,
		Patterns: []string{"[invalid("},
	}

	encoder, err := NewRedactingEncoder(newEncoder("json"), cfg)

	assert.NoError(t, err)
	assert.NotNil(t, encoder)
}

func TestRedactingEncoder_AllMethodsImplemented(t *testing.T) {
	cfg := RedactionConfig{
		Enabled: true,
		Fields:  []string{"password", "token", "certificate", "credentials", "secret_array"},
	}

	encoder, err := NewRedactingEncoder(newEncoder("json"), cfg)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		encoder.AddString("password", "secret")
		encoder.AddByteString("token", []byte("token-value"))
		encoder.AddBinary("certificate", []byte{0x00})
		_ = encoder.AddReflected("safe_field", "value")
		_ = encoder.AddObject("credentials", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
			return nil
		}))
		_ = encoder.AddArray("secret_array", zapcore.ArrayMarshalerFunc(func(enc zapcore.ArrayEncoder) error {
			return nil
		}))
	})
}
