package persona

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts completed upstream requests.
	// Labels: method, route (path template), status (HTTP status or "error")
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "persona_mcp",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of Persona API requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration tracks end-to-end request latency including retries.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "persona_mcp",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of Persona API requests in seconds, retries included",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// retriesTotal counts retry attempts.
	// Labels: route, reason (rate_limited, server_error, transport)
	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "persona_mcp",
			Subsystem: "upstream",
			Name:      "retries_total",
			Help:      "Total number of retried Persona API attempts",
		},
		[]string{"route", "reason"},
	)

	// RateLimitWaitSeconds tracks time spent waiting on the client-side limiter.
	RateLimitWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "persona_mcp",
			Subsystem: "upstream",
			Name:      "rate_limit_wait_seconds",
			Help:      "Time spent waiting for the client-side rate limiter",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
)
