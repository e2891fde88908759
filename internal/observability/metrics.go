package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "neuraline"

// Metrics holds the Prometheus collectors. Each Metrics has its own
// registry. All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	agentRuns     *prometheus.CounterVec
	agentDuration *prometheus.HistogramVec
	genCalls      *prometheus.CounterVec
	genDuration   *prometheus.HistogramVec
	events        *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		agentRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_runs_total",
			Help:      "Agent runs by role and outcome.",
		}, []string{"role", "outcome"}),
		agentDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_run_duration_seconds",
			Help:      "Agent run duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"role"}),
		genCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_calls_total",
			Help:      "Model calls by provider and result.",
		}, []string{"provider", "result"}),
		genDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Model call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Orchestration events by type.",
		}, []string{"type"}),
	}
	m.registry.MustRegister(m.agentRuns, m.agentDuration, m.genCalls, m.genDuration, m.events)
	return m
}

// ObserveAgent records one agent run.
func (m *Metrics) ObserveAgent(role, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.agentRuns.WithLabelValues(role, outcome).Inc()
	m.agentDuration.WithLabelValues(role).Observe(d.Seconds())
}

// ObserveGeneration records one model call.
func (m *Metrics) ObserveGeneration(provider string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.genCalls.WithLabelValues(provider, result).Inc()
	m.genDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func (m *Metrics) countEvent(eventType string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(eventType).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
