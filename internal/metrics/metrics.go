// Package metrics exposes Prometheus instrumentation for the sales engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's instrument set. A nil *Metrics is valid and all
// methods are no-ops, so tests and embedders can skip instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	skillExecutions *prometheus.CounterVec
	skillDuration   *prometheus.HistogramVec
	modelCalls      *prometheus.CounterVec
	turns           *prometheus.CounterVec
}

// New creates a Metrics backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		skillExecutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vendabot_skill_executions_total",
			Help: "Skill executions by skill name and outcome.",
		}, []string{"skill", "outcome"}),
		skillDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vendabot_skill_duration_seconds",
			Help:    "Skill execution latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"skill"}),
		modelCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vendabot_model_calls_total",
			Help: "Model calls by phase (first, grounded) and outcome.",
		}, []string{"phase", "outcome"}),
		turns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vendabot_turns_total",
			Help: "Conversational turns by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveSkill records one skill execution.
func (m *Metrics) ObserveSkill(skill string, success bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	m.skillExecutions.WithLabelValues(skill, outcome).Inc()
	m.skillDuration.WithLabelValues(skill).Observe(elapsed.Seconds())
}

// ObserveModelCall records one model call.
func (m *Metrics) ObserveModelCall(phase string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.modelCalls.WithLabelValues(phase, outcome).Inc()
}

// ObserveTurn records one completed turn.
func (m *Metrics) ObserveTurn(failed bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.turns.WithLabelValues(outcome).Inc()
}

// Handler returns the HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
