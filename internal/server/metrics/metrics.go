// Package metrics exposes Prometheus counters for authentication outcomes.
// Counters live on a private registry so that tests and multiple App
// instances in one process do not collide on the global one.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for auth_events_total.
const (
	EventRegister       = "register"
	EventRegisterFailed = "register_failed"
	EventLoginSuccess   = "login_success"
	EventLoginFailed    = "login_failed"
	EventPasswordReset  = "password_reset"
	EventResetFailed    = "password_reset_failed"
	EventIdentityOK     = "identity_resolved"
	EventIdentityDenied = "identity_rejected"
)

type Metrics struct {
	registry      *prometheus.Registry
	events        *prometheus.CounterVec
	auditFailures prometheus.Counter
}

// New builds the counters and registers them, together with the Go runtime
// and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Total number of authentication operations by outcome",
		}, []string{"event"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_audit_write_failures_total",
			Help: "Total number of audit entries that could not be written",
		}),
	}
	m.registry.MustRegister(
		m.events,
		m.auditFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Event counts one operation outcome. Safe on a nil receiver.
func (m *Metrics) Event(event string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(event).Inc()
}

// AuditWriteFailed counts one dropped audit entry. Safe on a nil receiver.
func (m *Metrics) AuditWriteFailed() {
	if m == nil {
		return
	}
	m.auditFailures.Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
