package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// DefaultJob is the scrape job label persona-mcp is expected under.
const DefaultJob = "persona-mcp"

// PromQL for the dashboard. OTel instrument names reach Prometheus with dots
// replaced by underscores.
const (
	queryToolRate        = `sum(rate(persona_mcp_tool_invocations_total[1m])) * 60`
	queryToolLatencyP95  = `histogram_quantile(0.95, sum by (le) (rate(persona_mcp_tool_duration_seconds_bucket[5m])))`
	queryToolErrorRatio  = `sum(rate(persona_mcp_tool_errors_total[5m])) / sum(rate(persona_mcp_tool_invocations_total[5m]))`
	queryToolActive      = `sum(persona_mcp_tool_active_requests)`
	queryUpstreamRate    = `sum(rate(persona_mcp_upstream_requests_total[1m])) * 60`
	queryUpstreamP95     = `histogram_quantile(0.95, sum by (le) (rate(persona_mcp_upstream_request_duration_seconds_bucket[5m])))`
	queryUpstreamRetries = `sum(increase(persona_mcp_upstream_retries_total[5m]))`
	queryRateLimitP95    = `histogram_quantile(0.95, sum by (le) (rate(persona_mcp_upstream_rate_limit_wait_seconds_bucket[5m])))`
	queryRedactions      = `sum(increase(persona_mcp_secrets_redactions_total[5m]))`
)

// MetricsClient queries a Prometheus-compatible API (Prometheus or
// VictoriaMetrics).
type MetricsClient struct {
	baseURL string
	job     string
	client  *http.Client
}

// QueryResult represents the instant query response
type QueryResult struct {
	Status string    `json:"status"`
	Data   QueryData `json:"data"`
}

// QueryData holds the query result data
type QueryData struct {
	ResultType string         `json:"resultType"`
	Result     []MetricResult `json:"result"`
}

// MetricResult represents a single metric result
type MetricResult struct {
	Metric map[string]string `json:"metric"`
	Value  [2]interface{}    `json:"value"`
}

// NewMetricsClient creates a client for baseURL. Runtime metrics are
// selected by job; an empty job uses DefaultJob.
func NewMetricsClient(baseURL, job string) *MetricsClient {
	if job == "" {
		job = DefaultJob
	}
	return &MetricsClient{
		baseURL: baseURL,
		job:     job,
		client: &http.Client{
			Timeout: 2 * time.Second,
		},
	}
}

// Query executes an instant PromQL query.
func (c *MetricsClient) Query(ctx context.Context, query string) (QueryResult, error) {
	u, err := url.Parse(c.baseURL + "/api/v1/query")
	if err != nil {
		return QueryResult{}, fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return QueryResult{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return QueryResult{}, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var result QueryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return QueryResult{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return result, nil
}

// QueryValue runs query and returns its first sample. Empty results and
// NaN (a ratio over zero traffic) read as zero.
func (c *MetricsClient) QueryValue(ctx context.Context, query string) (float64, error) {
	result, err := c.Query(ctx, query)
	if err != nil {
		return 0, err
	}
	return extractFloatValue(result)
}

// Snapshot runs every dashboard query concurrently. The first failing query
// aborts the snapshot.
func (c *MetricsClient) Snapshot(ctx context.Context) (MetricsSnapshot, error) {
	var snap MetricsSnapshot
	var goroutines, memory, started float64

	targets := []struct {
		query string
		dst   *float64
	}{
		{queryToolRate, &snap.ToolRate},
		{queryToolLatencyP95, &snap.ToolLatencyP95},
		{queryToolErrorRatio, &snap.ToolErrorRatio},
		{queryToolActive, &snap.ToolActive},
		{queryUpstreamRate, &snap.UpstreamRate},
		{queryUpstreamP95, &snap.UpstreamLatencyP95},
		{queryUpstreamRetries, &snap.UpstreamRetries},
		{queryRateLimitP95, &snap.RateLimitWaitP95},
		{queryRedactions, &snap.Redactions},
		{c.runtimeQuery("go_goroutines"), &goroutines},
		{c.runtimeQuery("process_resident_memory_bytes"), &memory},
		{c.runtimeQuery("process_start_time_seconds"), &started},
	}

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError().WithFirstError()
	for _, target := range targets {
		p.Go(func(ctx context.Context) error {
			v, err := c.QueryValue(ctx, target.query)
			if err != nil {
				return err
			}
			*target.dst = v
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return MetricsSnapshot{}, err
	}

	snap.Goroutines = int(goroutines)
	snap.MemoryMB = memory / (1024 * 1024)
	if started > 0 {
		snap.Uptime = time.Now().Unix() - int64(started)
	}
	return snap, nil
}

func (c *MetricsClient) runtimeQuery(metric string) string {
	return fmt.Sprintf(`max(%s{job=%q})`, metric, c.job)
}

// extractFloatValue extracts a float value from query result
func extractFloatValue(result QueryResult) (float64, error) {
	if len(result.Data.Result) == 0 {
		return 0, nil
	}

	valueStr, ok := result.Data.Result[0].Value[1].(string)
	if !ok {
		return 0, fmt.Errorf("value is not a string")
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse value: %w", err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, nil
	}

	return value, nil
}
