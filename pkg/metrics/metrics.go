// Package metrics provides Prometheus metrics for the matching pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "dealdesk"
	subsystem = "matching"
)

// Run outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	tokensTotal   *prometheus.CounterVec
	candidateSize prometheus.Histogram
	unresolved    prometheus.Counter
}

// New registers the matching metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		runsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Matching runs by outcome.",
		}, []string{"outcome"}),
		runDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "run_duration_seconds",
			Help:      "End-to-end matching run duration.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		tokensTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "scorer_tokens_total",
			Help:      "Tokens consumed by the scoring provider.",
		}, []string{"kind"}),
		candidateSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "candidates_evaluated",
			Help:      "Candidate set size after filtering.",
			Buckets:   prometheus.LinearBuckets(0, 5, 8),
		}),
		unresolved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "unresolved_results_total",
			Help:      "Scorer results dropped because no candidate name matched.",
		}),
	}
}

// ObserveRun records one completed run. Nil-safe so tests can run
// without a registry.
func (m *Metrics) ObserveRun(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(duration.Seconds())
}

// ObserveScoring records scorer usage for one run.
func (m *Metrics) ObserveScoring(promptTokens, outputTokens, candidates, unresolved int) {
	if m == nil {
		return
	}
	m.tokensTotal.WithLabelValues("prompt").Add(float64(promptTokens))
	m.tokensTotal.WithLabelValues("output").Add(float64(outputTokens))
	m.candidateSize.Observe(float64(candidates))
	m.unresolved.Add(float64(unresolved))
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
