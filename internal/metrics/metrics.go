package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendCallsTotal tracks backend calls per endpoint
	BackendCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockphantom_backend_calls_total",
			Help: "Total number of backend calls",
		},
		[]string{"endpoint"},
	)

	// BackendErrorsTotal tracks backend errors per endpoint
	BackendErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockphantom_backend_errors_total",
			Help: "Total number of backend errors",
		},
		[]string{"endpoint", "error_type"},
	)

	// BackendLatency tracks backend call latency
	BackendLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blockphantom_backend_latency_seconds",
			Help:    "Backend call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// QueriesTotal tracks orchestrated risk+history queries by mode and outcome
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockphantom_queries_total",
			Help: "Total number of risk and history queries",
		},
		[]string{"network", "mode", "outcome"},
	)

	// QueriesSupersededTotal tracks query results discarded because a newer query started
	QueriesSupersededTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blockphantom_queries_superseded_total",
			Help: "Total number of query results discarded as stale",
		},
	)

	// DemoFallbacksTotal tracks demo re-queries triggered after a live query
	DemoFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockphantom_demo_fallbacks_total",
			Help: "Total number of demo fallback queries",
		},
		[]string{"network"},
	)

	// PaymentPollsTotal tracks finished payment polling loops by outcome
	PaymentPollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockphantom_payment_polls_total",
			Help: "Total number of payment polling loops by terminal state",
		},
		[]string{"outcome"},
	)
)
