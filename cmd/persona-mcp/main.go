// Persona-mcp exposes the Persona identity verification API to MCP clients.
//
// Usage:
//
//	# Serve MCP on stdio (for desktop assistants)
//	PERSONA_API_KEY=persona_sandbox_... persona-mcp serve
//
//	# Serve streamable HTTP on 127.0.0.1:8080/mcp
//	persona-mcp serve --transport http
//
//	# List the tools that would be registered
//	persona-mcp tools --read-only
//
//	# Validate configuration and probe the API
//	persona-mcp check
//
//	# Watch metrics collected by VictoriaMetrics
//	persona-mcp monitor --url http://localhost:8428
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// configPath is the --config flag shared by commands that load configuration.
var configPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "persona-mcp",
		Short: "MCP server for the Persona identity verification API",
		Long: `persona-mcp translates MCP tool calls into Persona API requests.

Configuration is read from ~/.config/persona-mcp/config.yaml and from
environment variables such as PERSONA_API_KEY and SERVER_TRANSPORT.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/persona-mcp/config.yaml)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newToolsCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newMonitorCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "persona-mcp by Fyrsmith Labs\n")
			fmt.Fprintf(out, "Version:    %s\n", version)
			fmt.Fprintf(out, "Commit:     %s\n", gitCommit)
			fmt.Fprintf(out, "Build Date: %s\n", buildDate)
		},
	}
}
