package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/persona-mcp/internal/config"
	"github.com/fyrsmithlabs/persona-mcp/internal/persona"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and probe the Persona API",
		Long: `Load and validate the configuration, then request one record from
each major Persona collection to confirm the API key works.

Exits non-zero when configuration is invalid or any probe fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithFile(configPath)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", errorStyle.Render("config:"), err)
				return err
			}

			client, err := persona.NewClient(cmd.Context(), persona.FromAppConfig(cfg.Persona))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s valid\n", healthyStyle.Render("config:"))
			fmt.Fprintf(out, "  base url:    %s\n", client.BaseURL())
			fmt.Fprintf(out, "  api key:     %s\n", cfg.Persona.APIKey.Masked())
			fmt.Fprintf(out, "  environment: %s\n", environmentLabel(cfg.Persona.Environment()))
			fmt.Fprintf(out, "  transport:   %s\n", cfg.Server.Transport)

			results := client.Probe(cmd.Context(), persona.DefaultProbeTargets())
			if failed := renderProbes(out, results); failed > 0 {
				return fmt.Errorf("%d of %d probes failed", failed, len(results))
			}
			return nil
		},
	}
}

func environmentLabel(env string) string {
	switch env {
	case config.EnvironmentProduction:
		return warningStyle.Render(env)
	case config.EnvironmentSandbox:
		return healthyStyle.Render(env)
	default:
		return env
	}
}

// renderProbes prints one line per probe and returns the failure count.
func renderProbes(w io.Writer, results []persona.ProbeResult) int {
	failed := 0
	for _, r := range results {
		var status string
		switch {
		case r.OK():
			status = healthyStyle.Render("ok")
		case r.Err != nil:
			failed++
			status = errorStyle.Render("error: " + r.Err.Error())
		default:
			failed++
			status = errorStyle.Render(fmt.Sprintf("HTTP %d", r.Status))
		}
		fmt.Fprintf(w, "  %-12s %-8s %s\n", r.Name, r.Latency.Round(time.Millisecond), status)
	}
	return failed
}
