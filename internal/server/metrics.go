package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	billsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wardbook",
		Name:      "bills_generated_total",
		Help:      "Bills generated, by episode type.",
	}, []string{"episode_type"})

	paymentsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wardbook",
		Name:      "payments_processed_total",
		Help:      "Payment transactions applied to bills.",
	})

	paymentAmount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wardbook",
		Name:      "payments_amount_cents_total",
		Help:      "Total cents collected across payment transactions.",
	})
)
