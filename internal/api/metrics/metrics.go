// Package metrics defines and registers all custom Prometheus metrics for
// the imezy API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "imezy"

// GenerationsTotal counts metered generation requests by outcome.
// Labels:
//   - kind: "txt2img", "img2img" or "upscale"
//   - status: "ok", "rejected" (insufficient credits) or "error"
var GenerationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generations_total",
		Help:      "Total number of generation requests, by kind and outcome.",
	},
	[]string{"kind", "status"},
)

// CreditsSpentTotal counts credits debited for successful generations.
var CreditsSpentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credits_spent_total",
		Help:      "Total credits debited for completed generations, by kind.",
	},
	[]string{"kind"},
)

// UnbilledGenerationsTotal counts generations whose ledger debit failed after
// the engine call succeeded. These are logged but not retried.
var UnbilledGenerationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unbilled_generations_total",
		Help:      "Generations that completed but could not be debited.",
	},
)

// EngineDuration measures the external engine call itself, lock held.
var EngineDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "engine_duration_seconds",
		Help:      "Duration of the external generation engine call.",
		Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
	},
	[]string{"kind"},
)

// JobQueueWait measures how long a request waited for the single generation
// slot before the engine call started.
var JobQueueWait = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_queue_wait_seconds",
		Help:      "Time spent waiting for the global generation slot.",
		Buckets:   prometheus.DefBuckets,
	},
)

// AuthFailuresTotal counts rejected authentications by reason.
// Label:
//   - reason: "expired", "invalid" or "missing"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected access tokens, by reason.",
	},
	[]string{"reason"},
)
