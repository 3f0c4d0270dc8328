package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	InsurerCalls    *prometheus.CounterVec
	InsurerRetries  prometheus.Counter
	InsurerDuration *prometheus.HistogramVec
	Transitions     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		InsurerCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coverflow_insurer_calls_total",
			Help: "Insurer API calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		InsurerRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coverflow_insurer_retries_total",
			Help: "Retried insurer API attempts",
		}),
		InsurerDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coverflow_insurer_call_duration_seconds",
			Help:    "Insurer API call latency by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coverflow_submission_transitions_total",
			Help: "Submission status transitions",
		}, []string{"to"}),
	}
}

// ObserveInsurerCall records one finished insurer call.
func (m *Metrics) ObserveInsurerCall(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.InsurerCalls.WithLabelValues(operation, outcome).Inc()
	m.InsurerDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// IncRetry counts one retried attempt.
func (m *Metrics) IncRetry() {
	if m == nil {
		return
	}
	m.InsurerRetries.Inc()
}

// IncTransition counts one submission status change.
func (m *Metrics) IncTransition(to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to).Inc()
}
