// Package logging provides structured logging with OpenTelemetry integration.
//
// Logging wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Output to stderr and, optionally, the OpenTelemetry log bridge
//   - Context field injection (trace_id, tool.name, session.id, request.id)
//   - Secret redaction by field name and value pattern
//   - Level-aware sampling (errors never sampled)
//
// Stdout is reserved for the stdio MCP transport; nothing in this package
// writes to it.
//
// # Usage
//
//	cfg, err := logging.FromAppConfig(appCfg.Logging)
//	if err != nil {
//	    return err
//	}
//	logger, err := logging.NewLogger(cfg, otelProvider)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithToolName(ctx, "inquiry_create")
//	logger.Info(ctx, "tool call finished", zap.Duration("duration", d))
//
// # Secret Redaction
//
// Secrets are redacted at three layers:
//  1. Domain primitives (config.Secret)
//  2. Encoder-level field name filtering
//  3. Encoder-level pattern matching (Persona API keys, webhook secrets, bearer tokens)
//
// # Sampling
//
//   - Trace: first 1 per second, drop rest
//   - Debug: first 10 per second, drop rest
//   - Info: first 100, then 1 every 10
//   - Warn: first 100, then 1 every 100
//   - Error+: never sampled
//
// FromAppConfig turns sampling off at debug level and below.
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertNoSecrets(t)
package logging
