// Package monitor renders a terminal dashboard of persona-mcp metrics read
// from a Prometheus-compatible query API.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	sparklineWidth  = 30
	sparklineHeight = 3
	historySize     = 30
)

// Model represents the BubbleTea dashboard model
type Model struct {
	client     *MetricsClient
	vmURL      string
	interval   time.Duration
	lastUpdate time.Time
	metrics    MetricsSnapshot
	err        error
	quitting   bool

	memoryProgress progress.Model
	loadProgress   progress.Model
	errorProgress  progress.Model
}

// MetricsSnapshot holds the current metrics data
type MetricsSnapshot struct {
	// MCP tool calls
	ToolRate       float64
	ToolLatencyP95 float64
	ToolErrorRatio float64
	ToolActive     float64

	// Persona API
	UpstreamRate       float64
	UpstreamLatencyP95 float64
	UpstreamRetries    float64
	RateLimitWaitP95   float64

	Redactions float64

	Uptime     int64
	Goroutines int
	MemoryMB   float64

	// Historical data for sparklines (last N points)
	ToolRateHistory     []float64
	ToolLatencyHistory  []float64
	UpstreamRateHistory []float64
	MemoryHistory       []float64

	// Peak values for progress bars
	ToolRatePeak float64
	MemoryMax    float64
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	healthyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))
)

// NewModel creates a dashboard polling the query API at vmURL every
// interval. Runtime metrics are selected by job.
func NewModel(vmURL, job string, interval time.Duration) Model {
	return Model{
		client:   NewMetricsClient(vmURL, job),
		vmURL:    vmURL,
		interval: interval,
		memoryProgress: progress.New(
			progress.WithGradient("#00ff00", "#ffff00"),
			progress.WithWidth(40),
		),
		loadProgress: progress.New(
			progress.WithGradient("#00ffff", "#ff00ff"),
			progress.WithWidth(40),
		),
		errorProgress: progress.New(
			progress.WithGradient("#00ff00", "#ff0000"),
			progress.WithWidth(40),
		),
		metrics: MetricsSnapshot{
			ToolRateHistory:     make([]float64, 0, historySize),
			ToolLatencyHistory:  make([]float64, 0, historySize),
			UpstreamRateHistory: make([]float64, 0, historySize),
			MemoryHistory:       make([]float64, 0, historySize),
			ToolRatePeak:        1.0,
			MemoryMax:           256.0,
		},
	}
}

// Persona calls dominate tool latency, so the thresholds sit well above
// local HTTP norms.
func getLatencyBadge(latencyMS float64) string {
	if latencyMS < 1000 {
		return healthyStyle.Render("[✓]")
	} else if latencyMS < 5000 {
		return warningStyle.Render("[⚠]")
	}
	return errorStyle.Render("[✗]")
}

func getErrorBadge(ratio float64) string {
	if ratio < 0.05 {
		return healthyStyle.Render("[✓]")
	} else if ratio < 0.25 {
		return warningStyle.Render("[⚠]")
	}
	return errorStyle.Render("[✗]")
}

// getStatusBadge returns the overall status from tool latency and error ratio.
func getStatusBadge(latencyMS, errorRatio float64) string {
	switch {
	case latencyMS >= 5000 || errorRatio >= 0.25:
		return errorStyle.Render("✗ ERROR")
	case latencyMS >= 1000 || errorRatio >= 0.05:
		return warningStyle.Render("⚠ WARN")
	default:
		return healthyStyle.Render("✓ HEALTHY")
	}
}

// appendToHistory appends a value to history, maintaining max size
func appendToHistory(history []float64, value float64) []float64 {
	history = append(history, value)
	if len(history) > historySize {
		history = history[1:]
	}
	return history
}

func createSparkline(data []float64) string {
	if len(data) == 0 {
		return dimStyle.Render(fmt.Sprintf("%*s", sparklineWidth, "no data"))
	}

	spark := sparkline.New(sparklineWidth, sparklineHeight)
	for _, v := range data {
		spark.Push(v)
	}
	spark.Draw()

	return sparklineStyle.Render(spark.View())
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Message types
type tickMsg time.Time
type metricsMsg MetricsSnapshot
type errMsg error

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tick(m.interval),
		fetchMetrics(m.client),
	)
}

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchMetrics(client *MetricsClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		snap, err := client.Snapshot(ctx)
		if err != nil {
			return errMsg(err)
		}
		return metricsMsg(snap)
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m, fetchMetrics(m.client)
		}

	case tickMsg:
		return m, tea.Batch(
			tick(m.interval),
			fetchMetrics(m.client),
		)

	case metricsMsg:
		next := MetricsSnapshot(msg)

		next.ToolRateHistory = appendToHistory(m.metrics.ToolRateHistory, next.ToolRate)
		next.ToolLatencyHistory = appendToHistory(m.metrics.ToolLatencyHistory, next.ToolLatencyP95*1000)
		next.UpstreamRateHistory = appendToHistory(m.metrics.UpstreamRateHistory, next.UpstreamRate)
		next.MemoryHistory = appendToHistory(m.metrics.MemoryHistory, next.MemoryMB)

		next.ToolRatePeak = m.metrics.ToolRatePeak
		if next.ToolRate > next.ToolRatePeak {
			next.ToolRatePeak = next.ToolRate
		}
		next.MemoryMax = m.metrics.MemoryMax
		if next.MemoryMB > next.MemoryMax {
			next.MemoryMax = next.MemoryMB
		}

		m.metrics = next
		m.lastUpdate = time.Now()
		m.err = nil
		return m, nil

	case errMsg:
		m.err = error(msg)
		return m, nil
	}

	return m, nil
}

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return m.renderError()
	}
	return m.renderDashboard()
}

func (m Model) renderError() string {
	header := headerStyle.Render("persona-mcp Monitor")

	var content string
	content += "\n"
	content += errorStyle.Render("⚠ Cannot query metrics") + "\n"
	content += "\n"
	content += dimStyle.Render("URL: ") + valueStyle.Render(m.vmURL) + "\n"
	content += dimStyle.Render("Error: ") + errorStyle.Render(m.err.Error()) + "\n"
	content += "\n"
	content += dimStyle.Render("Please ensure:") + "\n"
	content += dimStyle.Render("  1. Prometheus or VictoriaMetrics is reachable at the URL") + "\n"
	content += dimStyle.Render("  2. it scrapes persona-mcp /metrics or receives its OTLP metrics") + "\n"
	content += "\n"
	content += footerStyle.Render("[q] quit  [r] retry") + "\n"

	return containerStyle.Render(header + "\n" + content)
}

func (m Model) renderDashboard() string {
	var content string

	lastUpdateStr := "Never"
	if !m.lastUpdate.IsZero() {
		lastUpdateStr = m.lastUpdate.Format("3:04:05 PM")
	}
	latencyMS := m.metrics.ToolLatencyP95 * 1000

	content += headerStyle.Render(" persona-mcp Monitor ") + "\n"
	content += fmt.Sprintf("%s   %s   %s   %s",
		getStatusBadge(latencyMS, m.metrics.ToolErrorRatio),
		dimStyle.Render("Uptime:"),
		valueStyle.Render(FormatDuration(m.metrics.Uptime)),
		dimStyle.Render(lastUpdateStr)) + "\n"

	// MCP tools
	content += "\n" + sectionStyle.Render("┃ MCP Tools") + "\n"
	content += labelStyle.Render("  Calls: ") +
		valueStyle.Render(FormatRate(m.metrics.ToolRate)) +
		"   " + createSparkline(m.metrics.ToolRateHistory) + "\n"
	content += labelStyle.Render("  Latency (p95): ") +
		valueStyle.Render(FormatLatency(m.metrics.ToolLatencyP95)) +
		" " + getLatencyBadge(latencyMS) +
		"   " + createSparkline(m.metrics.ToolLatencyHistory) + "\n"
	content += labelStyle.Render("  Errors: ") +
		m.errorProgress.ViewAs(clamp01(m.metrics.ToolErrorRatio)) +
		" " + valueStyle.Render(FormatPercentage(m.metrics.ToolErrorRatio)) +
		" " + getErrorBadge(m.metrics.ToolErrorRatio) + "\n"

	load := 0.0
	if m.metrics.ToolRatePeak > 0 {
		load = clamp01(m.metrics.ToolRate / m.metrics.ToolRatePeak)
	}
	content += labelStyle.Render("  Load: ") +
		m.loadProgress.ViewAs(load) +
		" " + dimStyle.Render(fmt.Sprintf("%.0f%%", load*100)) +
		"  " + labelStyle.Render("In flight: ") +
		valueStyle.Render(fmt.Sprintf("%.0f", m.metrics.ToolActive)) + "\n"

	// Persona API
	content += "\n" + sectionStyle.Render("┃ Persona API") + "\n"
	content += labelStyle.Render("  Requests: ") +
		valueStyle.Render(FormatRate(m.metrics.UpstreamRate)) +
		"   " + createSparkline(m.metrics.UpstreamRateHistory) + "\n"
	content += labelStyle.Render("  Latency (p95): ") +
		valueStyle.Render(FormatLatency(m.metrics.UpstreamLatencyP95)) +
		"  " + labelStyle.Render("Limiter wait (p95): ") +
		valueStyle.Render(FormatLatency(m.metrics.RateLimitWaitP95)) + "\n"
	content += labelStyle.Render("  Retries: ") +
		valueStyle.Render(FormatCount(m.metrics.UpstreamRetries)) + "\n"

	// Secrets
	content += "\n" + sectionStyle.Render("┃ Secrets") + "\n"
	redactions := valueStyle.Render(FormatCount(m.metrics.Redactions))
	if m.metrics.Redactions > 0 {
		redactions = warningStyle.Render(FormatCount(m.metrics.Redactions))
	}
	content += labelStyle.Render("  Redacted: ") + redactions + "\n"

	// System
	content += "\n" + sectionStyle.Render("┃ System") + "\n"
	memoryPercent := 0.0
	if m.metrics.MemoryMax > 0 {
		memoryPercent = clamp01(m.metrics.MemoryMB / m.metrics.MemoryMax)
	}
	content += labelStyle.Render("  Memory: ") +
		m.memoryProgress.ViewAs(memoryPercent) +
		" " + dimStyle.Render(FormatMemory(uint64(m.metrics.MemoryMB*1024*1024))) + "\n"
	content += labelStyle.Render("  Goroutines: ") +
		valueStyle.Render(fmt.Sprintf("%d", m.metrics.Goroutines)) + "\n"

	footer := footerKeyStyle.Render("[q]") + footerStyle.Render(" quit  ") +
		footerKeyStyle.Render("[r]") + footerStyle.Render(" refresh  ") +
		footerStyle.Render(fmt.Sprintf("Auto: %v", m.interval))

	content += "\n" + footer

	return containerStyle.Render(content)
}
