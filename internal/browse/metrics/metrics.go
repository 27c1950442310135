package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contact outcome labels.
const (
	OutcomeRevealed  = "revealed"
	OutcomeScreening = "screening"
	OutcomeDenied    = "denied"
	OutcomeCancelled = "cancelled"
	OutcomeClosed    = "closed"
	OutcomeRejected  = "rejected"
)

// Metrics provides observability for browse sessions. Labels never carry
// emails, user IDs or session IDs.
type Metrics struct {
	SessionsOpened  prometheus.Counter
	ActiveSessions  prometheus.Gauge
	ContactOutcomes *prometheus.CounterVec
}

// New creates a new Metrics instance with all browse metrics registered.
func New() *Metrics {
	return &Metrics{
		SessionsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "donorlink_browse_sessions_opened_total",
			Help: "Total browse sessions opened",
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "donorlink_browse_sessions_active",
			Help: "Browse sessions currently held in memory",
		}),
		ContactOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "donorlink_contact_outcomes_total",
			Help: "Contact gate transitions by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncrementSessionsOpened() {
	if m != nil {
		m.SessionsOpened.Inc()
		m.ActiveSessions.Inc()
	}
}

func (m *Metrics) DecrementActiveSessions() {
	if m != nil {
		m.ActiveSessions.Dec()
	}
}

func (m *Metrics) IncrementContactOutcome(outcome string) {
	if m != nil {
		m.ContactOutcomes.WithLabelValues(outcome).Inc()
	}
}
