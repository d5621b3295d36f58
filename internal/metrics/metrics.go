// Package metrics exposes authentication and guard counters to Prometheus.
package metrics

import (
	"context"
	"net/http"

	"stockdesk/internal/auth"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	sessionEvents  *prometheus.CounterVec
	authFailures   *prometheus.CounterVec
	guardDecisions *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockdesk",
			Name:      "session_events_total",
			Help:      "Session transitions by kind and role.",
		}, []string{"kind", "role"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockdesk",
			Name:      "auth_failures_total",
			Help:      "Rejected logins and registrations by reason.",
		}, []string{"op", "reason"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockdesk",
			Name:      "guard_decisions_total",
			Help:      "Route guard outcomes.",
		}, []string{"state"}),
	}
	reg.MustRegister(
		m.sessionEvents,
		m.authFailures,
		m.guardDecisions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe counts session transitions. It makes *Metrics an auth.Observer.
func (m *Metrics) Observe(_ context.Context, ev auth.Event) {
	m.sessionEvents.WithLabelValues(string(ev.Kind), string(ev.Session.Role)).Inc()
}

func (m *Metrics) AuthFailure(op, reason string) {
	m.authFailures.WithLabelValues(op, reason).Inc()
}

func (m *Metrics) GuardDecision(state string) {
	m.guardDecisions.WithLabelValues(state).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
