package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/persona-mcp/internal/jsonapi"
	"github.com/fyrsmithlabs/persona-mcp/internal/logging"
	"github.com/fyrsmithlabs/persona-mcp/internal/persona"
	"github.com/fyrsmithlabs/persona-mcp/internal/secrets"
)

// PersonaClient sends encoded requests to the Persona API. A non-2xx status is
// a response, not an error.
type PersonaClient interface {
	Do(ctx context.Context, req *jsonapi.Request) (*persona.Response, error)
}

// Server exposes the Persona catalog as MCP tools, resources and prompts.
type Server struct {
	mcp          *mcp.Server
	catalog      persona.Catalog
	translator   *jsonapi.Translator
	schemas      map[string]*jsonschema.Resolved
	client       PersonaClient
	scrubber     secrets.Scrubber
	toolRegistry *ToolRegistry
	metrics      *Metrics
	logger       *logging.Logger
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "persona-mcp")
	Name string

	// Version is the server version (default: "dev")
	Version string

	Logger *logging.Logger

	// MeterProvider receives tool metrics. Nil uses the global provider.
	MeterProvider metric.MeterProvider

	// ReadOnly skips every tool that can modify Persona state.
	ReadOnly bool

	// Categories limits the registered tools. Empty registers all categories.
	Categories []string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "persona-mcp",
		Version: "dev",
		Logger:  logging.NewNop(),
	}
}

// NewServer registers the enabled part of catalog on a new MCP server.
func NewServer(cfg *Config, catalog persona.Catalog, client PersonaClient, scrubber secrets.Scrubber) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("tool catalog is required")
	}
	if client == nil {
		return nil, fmt.Errorf("persona client is required")
	}
	if scrubber == nil {
		return nil, fmt.Errorf("scrubber is required")
	}
	if err := catalog.CheckCategories(cfg.Categories); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	name := cfg.Name
	if name == "" {
		name = "persona-mcp"
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    name,
			Version: cfg.Version,
		},
		nil,
	)

	s := &Server{
		mcp:          mcpServer,
		catalog:      catalog.Filter(cfg.ReadOnly, cfg.Categories),
		translator:   jsonapi.NewTranslator(catalog.Routes()),
		schemas:      make(map[string]*jsonschema.Resolved),
		client:       client,
		scrubber:     scrubber,
		toolRegistry: NewToolRegistry(),
		metrics:      NewMetrics(cfg.MeterProvider, logger.Underlying()),
		logger:       logger,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	s.registerSearchTools()
	s.registerResources()
	s.registerPrompts()

	logger.Info(context.Background(), "mcp server configured",
		zap.Int("tools", s.toolRegistry.Count()),
		zap.Bool("read_only", cfg.ReadOnly),
		zap.Strings("categories", cfg.Categories),
	)
	return s, nil
}

// Run serves MCP on the stdio transport until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "starting MCP server on stdio transport")
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}

// HTTPHandler serves MCP over the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// ToolCount returns the number of registered tools, discovery tools included.
func (s *Server) ToolCount() int {
	return s.toolRegistry.Count()
}

// Registry returns the tool registry.
func (s *Server) Registry() *ToolRegistry {
	return s.toolRegistry
}
