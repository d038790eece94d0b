// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Sweep metrics
	SweepRuns         prometheus.Counter
	CandidatesScanned prometheus.Counter
	SwapAttempts      prometheus.Counter
	SwapSubmissions   prometheus.Counter

	// Reclaim metrics
	BurnBatches       prometheus.Counter
	AccountsReclaimed prometheus.Counter
	ReclaimedLamports prometheus.Counter
	FeeLamportsSent   prometheus.Counter

	// Queue metrics
	JobsEnqueued  *prometheus.CounterVec
	JobsProcessed *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "dust_bot"
	}

	return &Metrics{
		SweepRuns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Total number of completed sweep runs",
		}),
		CandidatesScanned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "candidates_scanned_total",
			Help:      "Total number of candidates considered by the sweep driver",
		}),
		SwapAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "swap_attempts_total",
			Help:      "Total number of quote-backed swap attempts",
		}),
		SwapSubmissions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "swap_submissions_total",
			Help:      "Total number of swap transactions accepted for submission",
		}),

		BurnBatches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reclaim",
			Name:      "burn_batches_total",
			Help:      "Total number of burn/close batches submitted",
		}),
		AccountsReclaimed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reclaim",
			Name:      "accounts_reclaimed_total",
			Help:      "Total number of token accounts closed for rent",
		}),
		ReclaimedLamports: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reclaim",
			Name:      "reclaimed_lamports_total",
			Help:      "Total lamports reclaimed from closed accounts",
		}),
		FeeLamportsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reclaim",
			Name:      "fee_lamports_sent_total",
			Help:      "Total lamports transferred to the fee wallet",
		}),

		JobsEnqueued: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "jobs_enqueued_total",
			Help:      "Total number of jobs enqueued by action",
		}, []string{"action"}),
		JobsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "jobs_processed_total",
			Help:      "Total number of jobs processed by action and outcome",
		}, []string{"action", "outcome"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
