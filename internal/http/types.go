package http

import "github.com/fyrsmithlabs/persona-mcp/internal/telemetry"

// Readiness states reported by GET /ready.
const (
	StatusReady    = "ready"
	StatusDegraded = "degraded"
	StatusNotReady = "not_ready"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the response body for GET /ready.
type ReadyResponse struct {
	Status    string                 `json:"status"`
	Tools     int                    `json:"tools"`
	Telemetry telemetry.HealthStatus `json:"telemetry"`
}

// ScrubRequest is the request body for POST /api/v1/scrub.
type ScrubRequest struct {
	Content string `json:"content"`
}

// ScrubResponse is the response body for POST /api/v1/scrub.
type ScrubResponse struct {
	Content       string   `json:"content"`
	FindingsCount int      `json:"findings_count"`
	Rules         []string `json:"rules,omitempty"`
}
