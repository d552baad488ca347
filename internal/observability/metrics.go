package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the broker's Prometheus collectors. A nil *Metrics is a
// valid no-op receiver so tests can skip metrics wiring.
type Metrics struct {
	registry *prometheus.Registry

	ledgerEvents      *prometheus.CounterVec
	ledgerReconnects  prometheus.Counter
	ledgerSubmissions *prometheus.CounterVec
	escrowTransitions *prometheus.CounterVec
}

// New creates and registers the broker's metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ledgerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_ledger_events_total",
			Help: "Ledger events received on the subscription stream.",
		}, []string{"outcome"}), // observed, ignored
		ledgerReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "broker_ledger_reconnects_total",
			Help: "Reconnect attempts after a dropped ledger connection.",
		}),
		ledgerSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_ledger_submissions_total",
			Help: "Ledger operations submitted, by transaction type and outcome.",
		}, []string{"type", "outcome"}),
		escrowTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_escrow_transitions_total",
			Help: "Escrow state transitions persisted, by target status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.ledgerEvents, m.ledgerReconnects, m.ledgerSubmissions, m.escrowTransitions)
	return m
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) LedgerEvent(outcome string) {
	if m == nil {
		return
	}
	m.ledgerEvents.WithLabelValues(outcome).Inc()
}

func (m *Metrics) LedgerReconnect() {
	if m == nil {
		return
	}
	m.ledgerReconnects.Inc()
}

func (m *Metrics) LedgerSubmission(txType, outcome string) {
	if m == nil {
		return
	}
	m.ledgerSubmissions.WithLabelValues(txType, outcome).Inc()
}

func (m *Metrics) EscrowTransition(status string) {
	if m == nil {
		return
	}
	m.escrowTransitions.WithLabelValues(status).Inc()
}
