// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOperationsTotal counts notice store calls by backend, operation and outcome.
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noticeboard_store_operations_total",
			Help: "Total number of notice store operations",
		},
		[]string{"backend", "operation", "outcome"},
	)

	// StoreOperationDuration tracks notice store latency.
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "noticeboard_store_operation_duration_seconds",
			Help:    "Duration of notice store operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"backend", "operation"},
	)

	// BreakerState is 0 closed, 1 half-open, 2 open.
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "noticeboard_store_breaker_state",
			Help: "Notice store circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"backend"},
	)

	// FallbackResponsesTotal counts read endpoints answered with mock data
	// because the store was unavailable.
	FallbackResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noticeboard_fallback_responses_total",
			Help: "Total number of read responses served from fallback data",
		},
		[]string{"endpoint"},
	)

	// LoginAttemptsTotal counts admin login attempts by outcome.
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noticeboard_login_attempts_total",
			Help: "Total number of admin login attempts",
		},
		[]string{"outcome"},
	)

	// WebsocketClients is the number of connected real-time clients.
	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "noticeboard_websocket_clients",
			Help: "Number of connected websocket clients",
		},
	)
)

// RecordStoreOperation records one store call.
func RecordStoreOperation(backend, operation string, err error, d time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	StoreOperationsTotal.WithLabelValues(backend, operation, outcome).Inc()
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(d.Seconds())
}

// RecordFallback records a read endpoint served from fallback data.
func RecordFallback(endpoint string) {
	FallbackResponsesTotal.WithLabelValues(endpoint).Inc()
}

// Login attempt outcomes.
const (
	LoginSuccess    = "success"
	LoginFailure    = "failure"
	LoginBadRequest = "bad_request"
	LoginError      = "error"
)

// RecordLogin records a login attempt under one of the Login* outcomes.
func RecordLogin(outcome string) {
	LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}
