package persona

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/fyrsmithlabs/persona-mcp/internal/jsonapi"
)

// ProbeTarget is a cheap read used to check API reachability.
type ProbeTarget struct {
	Name string
	Path string
}

// ProbeResult is the outcome of one probe.
type ProbeResult struct {
	Name      string
	Path      string
	Status    int
	Latency   time.Duration
	RequestID string
	Err       error
}

// OK reports whether the endpoint answered with a 2xx status.
func (r ProbeResult) OK() bool {
	return r.Err == nil && r.Status >= 200 && r.Status < 300
}

// DefaultProbeTargets lists one collection per major resource.
func DefaultProbeTargets() []ProbeTarget {
	return []ProbeTarget{
		{Name: "accounts", Path: "/accounts"},
		{Name: "inquiries", Path: "/inquiries"},
		{Name: "reports", Path: "/reports"},
		{Name: "cases", Path: "/cases"},
		{Name: "webhooks", Path: "/webhooks"},
	}
}

// Probe requests one item from each target concurrently and returns the
// results ordered by name.
func (c *Client) Probe(ctx context.Context, targets []ProbeTarget) []ProbeResult {
	p := pool.NewWithResults[ProbeResult]().WithMaxGoroutines(4)
	for _, target := range targets {
		p.Go(func() ProbeResult {
			return c.probe(ctx, target)
		})
	}
	results := p.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results
}

func (c *Client) probe(ctx context.Context, target ProbeTarget) ProbeResult {
	req := &jsonapi.Request{
		Tool:   "probe_" + target.Name,
		Method: http.MethodGet,
		Path:   target.Path,
		Route:  target.Path,
		Query:  url.Values{"page[size]": []string{"1"}},
	}

	start := time.Now()
	resp, err := c.Do(ctx, req)
	result := ProbeResult{
		Name:    target.Name,
		Path:    target.Path,
		Latency: time.Since(start),
		Err:     err,
	}
	if resp != nil {
		result.Status = resp.Status
		result.RequestID = resp.RequestID
	}
	return result
}
