// Package config provides configuration loading for persona-mcp.
//
// Configuration is read from a YAML file and environment variables with
// sensible defaults; see LoadWithFile for precedence and security rules.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Transport names accepted by server.transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Environment names returned by PersonaConfig.Environment.
const (
	EnvironmentSandbox    = "sandbox"
	EnvironmentProduction = "production"
	EnvironmentUnknown    = "unknown"
)

// Config holds the complete persona-mcp configuration.
type Config struct {
	Persona       PersonaConfig       `koanf:"persona"`
	Server        ServerConfig        `koanf:"server"`
	Tools         ToolsConfig         `koanf:"tools"`
	Logging       LoggingConfig       `koanf:"logging"`
	Observability ObservabilityConfig `koanf:"observability"`
	Scrubber      ScrubberConfig      `koanf:"scrubber"`
}

// PersonaConfig holds Persona API client configuration.
type PersonaConfig struct {
	APIKey           Secret   `koanf:"api_key"`
	BaseURL          string   `koanf:"base_url"`
	APIVersion       string   `koanf:"api_version"`
	Timeout          Duration `koanf:"timeout"`
	RateLimit        float64  `koanf:"rate_limit"` // requests per second
	Burst            int      `koanf:"burst"`
	MaxRetries       int      `koanf:"max_retries"`
	MaxResponseBytes int64    `koanf:"max_response_bytes"`
}

// Environment classifies the API key. Persona keys are prefixed
// persona_sandbox_ or persona_production_.
func (p PersonaConfig) Environment() string {
	key := p.APIKey.Value()
	switch {
	case strings.HasPrefix(key, "persona_sandbox_"):
		return EnvironmentSandbox
	case strings.HasPrefix(key, "persona_production_"):
		return EnvironmentProduction
	default:
		return EnvironmentUnknown
	}
}

// ServerConfig holds MCP transport and HTTP server configuration.
type ServerConfig struct {
	Transport       string   `koanf:"transport"`
	Host            string   `koanf:"http_host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ToolsConfig controls which catalog tools are registered.
type ToolsConfig struct {
	// ReadOnly registers only tools that never modify Persona state.
	ReadOnly bool `koanf:"read_only"`
	// Categories limits registration to these categories. Empty means all.
	Categories []string `koanf:"categories"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json or console
}

// ObservabilityConfig holds OpenTelemetry configuration.
type ObservabilityConfig struct {
	EnableTelemetry bool    `koanf:"enable_telemetry"`
	Endpoint        string  `koanf:"endpoint"`
	Protocol        string  `koanf:"protocol"` // grpc or http/protobuf
	ServiceName     string  `koanf:"service_name"`
	Insecure        bool    `koanf:"insecure"`
	SamplingRate    float64 `koanf:"sampling_rate"`
}

// ScrubberConfig controls secret scrubbing of tool output.
type ScrubberConfig struct {
	Enabled bool `koanf:"enabled"`
	// AllowlistPath points at an optional TOML allowlist.
	AllowlistPath string `koanf:"allowlist_path"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Persona: PersonaConfig{
			BaseURL:          "https://withpersona.com/api/v1",
			APIVersion:       "2023-01-05",
			Timeout:          Duration(30 * time.Second),
			RateLimit:        5,
			Burst:            10,
			MaxRetries:       3,
			MaxResponseBytes: 10 << 20,
		},
		Server: ServerConfig{
			Transport:       TransportStdio,
			Host:            "127.0.0.1",
			Port:            8080,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Observability: ObservabilityConfig{
			Endpoint:     "localhost:4317",
			Protocol:     "grpc",
			ServiceName:  "persona-mcp",
			Insecure:     true,
			SamplingRate: 1.0,
		},
		Scrubber: ScrubberConfig{
			Enabled: true,
		},
	}
}

// Validate validates the configuration.
//
// Returns an error if:
//   - the Persona API key is missing or the base URL is not http(s)
//   - a client limit (timeout, rate, burst, retries, response size) is out of range
//   - the transport is unknown, or the HTTP port is not between 1 and 65535
//   - the log format is not json or console
//   - telemetry is enabled without a service name, endpoint or known protocol
func (c *Config) Validate() error {
	if !c.Persona.APIKey.IsSet() {
		return errors.New("persona.api_key is required (set PERSONA_API_KEY)")
	}
	u, err := url.Parse(c.Persona.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid persona.base_url %q: must be an http(s) URL", c.Persona.BaseURL)
	}
	if c.Persona.Timeout.Duration() <= 0 {
		return errors.New("persona.timeout must be positive")
	}
	if c.Persona.RateLimit <= 0 {
		return fmt.Errorf("persona.rate_limit must be positive, got %v", c.Persona.RateLimit)
	}
	if c.Persona.Burst <= 0 {
		return fmt.Errorf("persona.burst must be positive, got %d", c.Persona.Burst)
	}
	if c.Persona.MaxRetries < 0 {
		return fmt.Errorf("persona.max_retries cannot be negative, got %d", c.Persona.MaxRetries)
	}
	if c.Persona.MaxResponseBytes <= 0 {
		return errors.New("persona.max_response_bytes must be positive")
	}

	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid server.transport %q (must be %s or %s)", c.Server.Transport, TransportStdio, TransportHTTP)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging.format %q (must be json or console)", c.Logging.Format)
	}

	if c.Observability.EnableTelemetry {
		if c.Observability.ServiceName == "" {
			return errors.New("service name required when telemetry is enabled")
		}
		if c.Observability.Endpoint == "" {
			return errors.New("observability.endpoint required when telemetry is enabled")
		}
		switch c.Observability.Protocol {
		case "grpc", "http/protobuf":
		default:
			return fmt.Errorf("invalid observability.protocol %q (must be grpc or http/protobuf)", c.Observability.Protocol)
		}
		if c.Observability.SamplingRate < 0 || c.Observability.SamplingRate > 1 {
			return fmt.Errorf("observability.sampling_rate must be between 0 and 1, got %v", c.Observability.SamplingRate)
		}
	}

	return nil
}
