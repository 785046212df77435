// Package metrics exposes bot counters for Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storebot"

var (
	Updates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_total",
		Help:      "Inbound updates by type.",
	}, []string{"type"})

	FlowEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flow_events_total",
		Help:      "Conversation flow transitions by flow and outcome.",
	}, []string{"flow", "outcome"})

	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Orders committed by payment type.",
	}, []string{"payment"})

	InstallmentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "installments_recorded_total",
		Help:      "Installment receipts recorded by slot.",
	}, []string{"slot"})

	OTPSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_sent_total",
		Help:      "OTP dispatch attempts by result.",
	}, []string{"result"})

	HandlerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "handler_errors_total",
		Help:      "Flow-terminating errors by kind.",
	}, []string{"kind"})
)

const (
	OutcomeStarted   = "started"
	OutcomeCompleted = "completed"
	OutcomeAborted   = "aborted"
	OutcomeFailed    = "failed"
)

func Flow(flow, outcome string) {
	FlowEvents.WithLabelValues(flow, outcome).Inc()
}
