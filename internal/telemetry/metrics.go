package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReferencesIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "payment_references_total",
		Help:      "Out-of-band payment references issued, by method.",
	}, []string{"method"})

	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "payment_transitions_total",
		Help:      "Applied payment status transitions, by target status.",
	}, []string{"status"})

	Intents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "payment_intents_total",
		Help:      "Card payment intents requested, by outcome.",
	}, []string{"outcome"})

	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "payments_recorded_total",
		Help:      "Payments persisted to user history, by method.",
	}, []string{"method"})

	SettlementTimers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "checkout",
		Name:      "settlement_timers_in_flight",
		Help:      "Settlement tasks waiting to fire.",
	})
)
