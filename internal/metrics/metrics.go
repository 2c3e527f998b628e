// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketingops_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketingops_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Generation
	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketingops_generation_requests_total",
			Help: "Generation requests by media kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketingops_generation_duration_seconds",
			Help:    "Time spent in the generation gateway",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"kind"},
	)

	GenerationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketingops_generation_fallbacks_total",
			Help: "Generations that degraded to a placeholder artifact",
		},
		[]string{"kind"},
	)

	GatewayBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marketingops_gateway_breaker_state",
			Help: "Circuit breaker state of the generation gateway (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	WalletBalance = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketingops_wallet_balance",
			Help: "Remaining generation balance",
		},
	)

	// Library
	LibraryItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketingops_library_items",
			Help: "Number of items in the media library",
		},
	)

	BatchJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketingops_batch_jobs_total",
			Help: "Library batch operations by operation and final status",
		},
		[]string{"operation", "status"},
	)

	// Campaigns and tests
	CampaignsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketingops_campaigns_created_total",
			Help: "Campaigns created through the creation workflow",
		},
	)

	ABTestsLaunched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketingops_abtests_launched_total",
			Help: "A/B icon tests launched per game",
		},
		[]string{"game"},
	)

	// Event stream
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketingops_websocket_connections",
			Help: "Open event stream connections",
		},
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordGeneration records one gateway call. outcome is "success", "fallback" or "rejected".
func RecordGeneration(kind, outcome string, duration time.Duration) {
	GenerationRequests.WithLabelValues(kind, outcome).Inc()
	if outcome == "fallback" {
		GenerationFallbacks.WithLabelValues(kind).Inc()
	}
	if duration > 0 {
		GenerationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

// RecordBatchJob records a finished library operation.
func RecordBatchJob(operation, status string) {
	BatchJobs.WithLabelValues(operation, status).Inc()
}
