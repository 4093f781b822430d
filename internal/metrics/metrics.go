// Package metrics exposes network activity as Prometheus collectors fed by lifecycle hooks.
package metrics

import (
	"github.com/aretw0/prr/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors. Register them once per registry.
type Metrics struct {
	Transitions    *prometheus.CounterVec
	Communications *prometheus.CounterVec
	Billed         *prometheus.CounterVec
	Payments       prometheus.Counter
	TierChanges    *prometheus.CounterVec
	Notifications  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prr_terminal_transitions_total",
				Help: "Terminal state changes by origin and destination state",
			},
			[]string{"from", "to"},
		),
		Communications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prr_communications_started_total",
				Help: "Communications started by kind",
			},
			[]string{"kind"},
		),
		Billed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prr_billed_amount_total",
				Help: "Amount billed for completed communications, in currency units, by kind and tier",
			},
			[]string{"kind", "tier"},
		),
		Payments: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "prr_payments_total",
				Help: "Amount paid for communications, in currency units",
			},
		),
		TierChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prr_tier_changes_total",
				Help: "Client tier moves by origin and destination tier",
			},
			[]string{"from", "to"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prr_notifications_total",
				Help: "Notifications delivered to clients by kind",
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(m.Transitions, m.Communications, m.Billed, m.Payments, m.TierChanges, m.Notifications)
	return m
}

// Hooks returns lifecycle hooks that record every event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTerminalTransition: func(e *domain.TerminalEvent) {
			m.Transitions.WithLabelValues(e.From, e.To).Inc()
		},
		OnCommunicationStart: func(e *domain.CommunicationEvent) {
			m.Communications.WithLabelValues(e.Kind.String()).Inc()
		},
		OnCommunicationEnd: func(e *domain.CommunicationEvent) {
			m.Billed.WithLabelValues(e.Kind.String(), e.Tier.String()).Add(units(e.Cost))
		},
		OnPayment: func(e *domain.PaymentEvent) {
			m.Payments.Add(units(e.Amount))
		},
		OnTierChange: func(e *domain.TierEvent) {
			m.TierChanges.WithLabelValues(e.From.String(), e.To.String()).Inc()
		},
		OnNotification: func(e *domain.NotificationEvent) {
			m.Notifications.WithLabelValues(e.Notification.Kind.String()).Inc()
		},
	}
}

func units(m domain.Money) float64 {
	return float64(m) / 100
}
