package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/persona-mcp/internal/monitor"
)

func newMonitorCmd() *cobra.Command {
	var (
		metricsURL string
		job        string
		interval   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Live terminal dashboard of persona-mcp metrics",
		Long: `Poll a Prometheus-compatible query API and render tool, Persona API,
secret redaction and runtime metrics.

Examples:
  # VictoriaMetrics on the default port
  persona-mcp monitor

  # Prometheus, refreshing every 10 seconds
  persona-mcp monitor --url http://localhost:9090 --interval 10s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval <= 0 {
				return fmt.Errorf("interval must be positive, got %v", interval)
			}
			p := tea.NewProgram(
				monitor.NewModel(metricsURL, job, interval),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("dashboard failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsURL, "url", "http://localhost:8428", "Prometheus-compatible query API")
	cmd.Flags().StringVar(&job, "job", monitor.DefaultJob, "scrape job label for runtime metrics")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "refresh interval")
	return cmd
}
