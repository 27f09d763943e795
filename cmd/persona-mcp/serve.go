package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/persona-mcp/internal/config"
	httpserver "github.com/fyrsmithlabs/persona-mcp/internal/http"
	"github.com/fyrsmithlabs/persona-mcp/internal/logging"
	"github.com/fyrsmithlabs/persona-mcp/internal/mcp"
	"github.com/fyrsmithlabs/persona-mcp/internal/persona"
	"github.com/fyrsmithlabs/persona-mcp/internal/secrets"
	"github.com/fyrsmithlabs/persona-mcp/internal/telemetry"
)

func newServeCmd() *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long: `Run the MCP server on stdio (default) or streamable HTTP.

In stdio mode stdout carries the MCP protocol and all logs go to stderr.
In http mode the server also answers /health, /ready and /metrics.

Examples:
  # Claude Desktop / stdio clients
  persona-mcp serve

  # Streamable HTTP on the configured host and port
  persona-mcp serve --transport http`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithFile(configPath)
			if err != nil {
				return err
			}
			if transport != "" {
				cfg.Server.Transport = transport
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "", "MCP transport: stdio or http (overrides server.transport)")
	return cmd
}

// run wires every component from cfg and serves until ctx is canceled.
//
// Order matters: the logger comes first so later failures are reported,
// and telemetry precedes the Persona client and MCP server so their
// tracers and meters bind to the configured providers.
func run(ctx context.Context, cfg *config.Config) error {
	logCfg, err := logging.FromAppConfig(cfg.Logging)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(logCfg, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	tel, err := telemetry.New(ctx, telemetry.FromAppConfig(cfg.Observability, version))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn(shutdownCtx, "telemetry shutdown failed", zap.Error(err))
		}
	}()
	if health := tel.Health(); health.Degraded {
		logger.Warn(ctx, "telemetry degraded", zap.String("reason", health.Reason))
	}

	client, err := persona.NewClient(ctx, persona.FromAppConfig(cfg.Persona),
		persona.WithLogger(logger.Underlying().Named("persona")),
		persona.WithTracerProvider(tel.TracerProvider()),
	)
	if err != nil {
		return fmt.Errorf("failed to create persona client: %w", err)
	}

	scrubCfg, err := secrets.FromAppConfig(cfg.Scrubber)
	if err != nil {
		return fmt.Errorf("failed to load scrubber config: %w", err)
	}
	scrubber, err := secrets.New(scrubCfg)
	if err != nil {
		return fmt.Errorf("failed to create scrubber: %w", err)
	}

	mcpServer, err := mcp.NewServer(&mcp.Config{
		Name:          "persona-mcp",
		Version:       version,
		Logger:        logger,
		MeterProvider: tel.MeterProvider(),
		ReadOnly:      cfg.Tools.ReadOnly,
		Categories:    cfg.Tools.Categories,
	}, persona.DefaultCatalog(), client, scrubber)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	logger.Info(ctx, "starting persona-mcp",
		zap.String("version", version),
		zap.String("transport", cfg.Server.Transport),
		zap.String("environment", cfg.Persona.Environment()),
		zap.String("base_url", client.BaseURL()),
		logging.Secret("api_key", cfg.Persona.APIKey),
	)

	if cfg.Server.Transport == config.TransportStdio {
		if err := mcpServer.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		logger.Info(context.Background(), "stdio server stopped")
		return nil
	}

	srv, err := httpserver.NewServer(scrubber, logger.Underlying().Named("http"), &httpserver.Config{
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		MCPHandler:    mcpServer.HTTPHandler(),
		Health:        tel.Health,
		ToolCount:     mcpServer.ToolCount,
		MeterProvider: tel.MeterProvider(),
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	return serveHTTP(ctx, srv, cfg.Server.ShutdownTimeout.Duration(), logger)
}

// serveHTTP runs srv until ctx is canceled or the listener fails, then
// shuts it down within timeout.
func serveHTTP(ctx context.Context, srv *httpserver.Server, timeout time.Duration, logger *logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown failed: %w", err)
	}
	logger.Info(shutdownCtx, "server shutdown complete")
	return nil
}
