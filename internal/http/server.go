// Package http serves the persona-mcp operational endpoints and, when the
// HTTP transport is selected, the streamable MCP endpoint.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/persona-mcp/internal/logging"
	"github.com/fyrsmithlabs/persona-mcp/internal/secrets"
	"github.com/fyrsmithlabs/persona-mcp/internal/telemetry"
)

// MCPPath is where the streamable MCP handler is mounted.
const MCPPath = "/mcp"

// Server provides HTTP endpoints for persona-mcp.
type Server struct {
	echo     *echo.Echo
	scrubber secrets.Scrubber
	logger   *zap.Logger
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// MCPHandler is mounted at MCPPath when set.
	MCPHandler http.Handler

	// Health reports telemetry health for /ready. Nil reports healthy.
	Health func() telemetry.HealthStatus

	// ToolCount reports how many MCP tools are registered. /ready answers
	// 503 until it is positive.
	ToolCount func() int

	// MeterProvider backs the HTTP metrics. Nil uses the global provider.
	MeterProvider metric.MeterProvider
}

// Addr returns host:port for the listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewServer creates a new HTTP server.
func NewServer(scrubber secrets.Scrubber, logger *zap.Logger, cfg *Config) (*Server, error) {
	if scrubber == nil {
		return nil, fmt.Errorf("scrubber cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "127.0.0.1",
			Port: 8080,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestContext())
	e.Use(NewHTTPMetrics(cfg.MeterProvider, logger).MetricsMiddleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:     e,
		scrubber: scrubber,
		logger:   logger,
		config:   cfg,
	}

	s.registerRoutes()

	return s, nil
}

// requestContext copies the echo request ID into the request context so
// downstream loggers (including MCP tool handlers) carry it.
func requestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), id)))
			}
			return next(c)
		}
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/ready", s.handleReady)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if s.config.MCPHandler != nil {
		s.echo.Any(MCPPath, echo.WrapHandler(s.config.MCPHandler))
	}

	v1 := s.echo.Group("/api/v1")
	v1.POST("/scrub", s.handleScrub)
}

// Echo exposes the underlying router.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleReady(c echo.Context) error {
	resp := ReadyResponse{
		Status:    StatusReady,
		Telemetry: telemetry.HealthStatus{Healthy: true},
	}
	if s.config.Health != nil {
		resp.Telemetry = s.config.Health()
	}
	if s.config.ToolCount != nil {
		resp.Tools = s.config.ToolCount()
	}

	code := http.StatusOK
	switch {
	case resp.Tools == 0:
		resp.Status = StatusNotReady
		code = http.StatusServiceUnavailable
	case resp.Telemetry.Degraded:
		resp.Status = StatusDegraded
	}

	return c.JSON(code, resp)
}

func (s *Server) handleScrub(c echo.Context) error {
	var req ScrubRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid scrub request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content field is required")
	}

	result := s.scrubber.Scrub(req.Content)

	s.logger.Debug("scrubbed content",
		zap.Int("findings", result.TotalFindings),
		zap.Duration("duration", result.Duration),
	)

	return c.JSON(http.StatusOK, ScrubResponse{
		Content:       result.Scrubbed,
		FindingsCount: result.TotalFindings,
		Rules:         result.RuleIDs(),
	})
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	addr := s.config.Addr()
	s.logger.Info("starting http server",
		zap.String("addr", addr),
		zap.Bool("mcp", s.config.MCPHandler != nil),
	)
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
