// Package observability bridges the engine's lifecycle events to Prometheus
// collectors.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/NikBellini/web-graph/pkg/domain"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	NodeVisits      *prometheus.CounterVec
	FallbackRetries *prometheus.CounterVec
	Runs            *prometheus.CounterVec
	RunDuration     prometheus.Histogram
}

// NewMetrics creates and registers the collectors. Pass
// prometheus.DefaultRegisterer for the process-global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webgraph_node_visits_total",
				Help: "Total number of node action executions",
			},
			[]string{"node"},
		),
		FallbackRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webgraph_fallback_retries_total",
				Help: "Total number of fallback invocations",
			},
			[]string{"node"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webgraph_runs_total",
				Help: "Total number of completed runs by status",
			},
			[]string{"status"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "webgraph_run_duration_seconds",
				Help: "Duration of graph runs",
			},
		),
	}

	reg.MustRegister(m.NodeVisits, m.FallbackRetries, m.Runs, m.RunDuration)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors. Combine with other
// hook sets via domain.MergeLifecycleHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			m.NodeVisits.WithLabelValues(e.NodeName).Inc()
		},
		OnFallback: func(ctx context.Context, e *domain.FallbackEvent) {
			m.FallbackRetries.WithLabelValues(e.NodeName).Inc()
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(string(e.Status)).Inc()
			m.RunDuration.Observe(e.Duration.Seconds())
		},
	}
}
