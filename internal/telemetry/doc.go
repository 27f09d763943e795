// Package telemetry provides OpenTelemetry tracing and metrics for persona-mcp.
//
// Spans and metrics are exported over OTLP (gRPC or HTTP/protobuf) to a
// collector. Every upstream Persona request gets a span, and MCP tool calls
// are counted and timed.
//
// # Usage
//
//	tel, err := telemetry.New(ctx, telemetry.FromAppConfig(cfg.Observability, version))
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	client, err := persona.NewClient(ctx, pcfg, persona.WithTracerProvider(tel.TracerProvider()))
//
// # Configuration
//
//	observability:
//	  enable_telemetry: true
//	  endpoint: "localhost:4317"
//	  protocol: grpc          # or http/protobuf
//	  service_name: persona-mcp
//	  insecure: true          # only allowed for local endpoints
//	  sampling_rate: 1.0
//
// # Error Handling
//
// Exporter failures do not stop the server. The instance reports itself
// degraded through Health, which the readiness endpoint surfaces, and
// returns no-op tracers and meters.
//
// # Testing
//
//	tt := telemetry.NewTestTelemetry()
//	_, span := tt.Tracer("test").Start(ctx, "test-span")
//	span.End()
//	tt.AssertSpanExists(t, "test-span")
package telemetry
