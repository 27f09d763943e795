package secrets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// redactionsTotal counts redacted secrets by rule.
var redactionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "persona_mcp",
		Subsystem: "secrets",
		Name:      "redactions_total",
		Help:      "Secrets redacted from tool and resource output, by rule.",
	},
	[]string{"rule"},
)
