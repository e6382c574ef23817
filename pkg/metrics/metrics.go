package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for monitoring
var (
	IntentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nitropay_intents_created_total",
		Help: "The total number of payment intents created, by chain and outcome",
	}, []string{"chain_id", "status"})

	ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nitropay_provider_request_seconds",
		Help:    "Duration of requests to the payment provider API",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	ProviderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nitropay_provider_errors_total",
		Help: "Total number of provider API errors by operation and kind",
	}, []string{"operation", "kind"})

	SettlementSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nitropay_settlement_steps_total",
		Help: "Settlement protocol steps entered, by step and outcome",
	}, []string{"step", "status"})

	SettlementDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nitropay_settlement_seconds",
		Help:    "Time taken to run the full settlement sequence, by outcome",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10), // Start at 1s with 10 buckets doubling in size
	}, []string{"chain_id", "status"})
)
