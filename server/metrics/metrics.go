// Package metrics exports Prometheus metrics for the assistant.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/safartravel/safar/server/agent"
)

// Metrics implements agent.Observer.
type Metrics struct {
	turns             *prometheus.CounterVec
	toolCalls         *prometheus.CounterVec
	completionLatency *prometheus.HistogramVec
	activeSessions    prometheus.Gauge
}

var _ agent.Observer = (*Metrics)(nil)

// New registers the collectors with reg. A nil reg uses the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		turns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "safar_turns_total",
			Help: "User turns processed, by outcome",
		}, []string{"outcome"}),
		toolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "safar_tool_calls_total",
			Help: "Tool calls dispatched, by tool and result status",
		}, []string{"tool", "status"}),
		completionLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "safar_completion_latency_seconds",
			Help:    "Completion service latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"status"}),
		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "safar_active_sessions",
			Help: "Number of open chat sessions",
		}),
	}
}

func (m *Metrics) CompletionDone(elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.completionLatency.WithLabelValues(status).Observe(elapsed.Seconds())
}

func (m *Metrics) ToolDone(tool, status string) {
	m.toolCalls.WithLabelValues(tool, status).Inc()
}

func (m *Metrics) TurnDone(outcome string) {
	m.turns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SessionOpened() { m.activeSessions.Inc() }
func (m *Metrics) SessionClosed() { m.activeSessions.Dec() }
