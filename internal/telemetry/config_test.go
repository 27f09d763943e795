package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/persona-mcp/internal/config"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, ProtocolGRPC, cfg.Protocol)
	assert.Equal(t, "persona-mcp", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.Sampling.Rate)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Metrics.ExportInterval.Duration())
	assert.Equal(t, 5*time.Second, cfg.Shutdown.Timeout.Duration())
}

func TestFromAppConfig(t *testing.T) {
	obs := config.Default().Observability
	obs.EnableTelemetry = true
	obs.Protocol = ProtocolHTTP
	obs.Endpoint = "http://localhost:4318"
	obs.SamplingRate = 0.25

	cfg := FromAppConfig(obs, "1.4.0")

	assert.True(t, cfg.Enabled)
	assert.Equal(t, ProtocolHTTP, cfg.Protocol)
	assert.Equal(t, "http://localhost:4318", cfg.Endpoint)
	assert.Equal(t, "persona-mcp", cfg.ServiceName)
	assert.Equal(t, "1.4.0", cfg.ServiceVersion)
	assert.Equal(t, 0.25, cfg.Sampling.Rate)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "dev", FromAppConfig(obs, "").ServiceVersion)
}

func TestConfig_Validate(t *testing.T) {
	enabled := func(mutate func(*Config)) *Config {
		cfg := NewDefaultConfig()
		cfg.Enabled = true
		mutate(cfg)
		return cfg
	}

	tests := []struct {
		name   string
		config *Config
		errMsg string
	}{
		{"valid default config", NewDefaultConfig(), ""},
		{"disabled config skips validation", &Config{Enabled: false}, ""},
		{"enabled defaults", enabled(func(*Config) {}), ""},
		{"missing endpoint", enabled(func(c *Config) { c.Endpoint = "" }), "endpoint is required"},
		{"missing service name", enabled(func(c *Config) { c.ServiceName = "" }), "service_name is required"},
		{"missing service version", enabled(func(c *Config) { c.ServiceVersion = "" }), "service_version is required"},
		{"unknown protocol", enabled(func(c *Config) { c.Protocol = "thrift" }), "protocol must be"},
		{"http protocol", enabled(func(c *Config) { c.Protocol = ProtocolHTTP }), ""},
		{"sampling rate too low", enabled(func(c *Config) { c.Sampling.Rate = -0.1 }), "sampling.rate must be between 0 and 1"},
		{"sampling rate too high", enabled(func(c *Config) { c.Sampling.Rate = 1.1 }), "sampling.rate must be between 0 and 1"},
		{"invalid metrics export interval", enabled(func(c *Config) { c.Metrics.ExportInterval = config.Duration(0) }), "metrics.export_interval must be positive"},
		{"interval ignored without metrics", enabled(func(c *Config) {
			c.Metrics.Enabled = false
			c.Metrics.ExportInterval = 0
		}), ""},
		{"invalid shutdown timeout", enabled(func(c *Config) { c.Shutdown.Timeout = 0 }), "shutdown.timeout must be positive"},
		{"remote with TLS", enabled(func(c *Config) {
			c.Endpoint = "collector.prod:4317"
			c.Insecure = false
		}), ""},
		{"insecure to remote endpoint", enabled(func(c *Config) { c.Endpoint = "collector.prod:4317" }), "insecure connections to remote endpoints are not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_IsLocalEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		isLocal  bool
	}{
		{"localhost:4317", true},
		{"localhost", true},
		{"http://localhost:4318", true},
		{"127.0.0.1:4317", true},
		{"127.0.1.1:4317", true},
		{"[::1]:4317", true},
		{"::1", true},
		{"collector.prod:4317", false},
		{"https://otel.example.com:4318", false},
		{"192.168.1.1:4317", false},
		{"localhost.example.com:4317", false},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			cfg := &Config{Endpoint: tt.endpoint}
			assert.Equal(t, tt.isLocal, cfg.isLocalEndpoint())
		})
	}
}
