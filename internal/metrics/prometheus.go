package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "endpoint"},
	)

	// RemoteRequestsTotal tracks outbound calls by target, operation and outcome
	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_remote_requests_total",
			Help: "Total number of outbound requests to collaborating services",
		},
		[]string{"target", "operation", "outcome"},
	)

	// RemoteRequestDuration tracks outbound call latency
	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pos_remote_request_duration_seconds",
			Help:    "Outbound request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target", "operation"},
	)

	// CircuitBreakerState tracks circuit breaker state (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"service", "circuit_name"},
	)

	// CircuitBreakerFailures tracks circuit breaker failures
	CircuitBreakerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of circuit breaker failures",
		},
		[]string{"service", "circuit_name"},
	)

	// BulkheadActiveRequests tracks active requests in bulkhead
	BulkheadActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bulkhead_active_requests",
			Help: "Number of active requests in bulkhead",
		},
		[]string{"service", "bulkhead_name"},
	)

	// BulkheadRejectedRequests tracks rejected requests by bulkhead
	BulkheadRejectedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulkhead_rejected_requests_total",
			Help: "Total number of rejected requests by bulkhead",
		},
		[]string{"service", "bulkhead_name"},
	)

	// OrdersTotal tracks order transitions by operation and outcome
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Total number of order transitions",
		},
		[]string{"operation", "outcome"},
	)

	// HeldOrders tracks the size of the held-orders cache after the last reload
	HeldOrders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pos_held_orders",
			Help: "Number of held orders in the terminal cache",
		},
	)

	// PaymentAmount tracks payment amounts
	PaymentAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_amount_pesos",
			Help:    "Completed order totals in pesos",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"method"},
	)

	// NotificationsTotal tracks operator notifications by type
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_notifications_total",
			Help: "Total number of notifications shown to the operator",
		},
		[]string{"type"},
	)

	// ReceiptsTotal tracks receipt deliveries by channel and outcome
	ReceiptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_receipts_total",
			Help: "Total number of receipts delivered",
		},
		[]string{"channel", "outcome"},
	)

	// DisplayNumberResets tracks daily resets of the sequential display number
	DisplayNumberResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_display_number_resets_total",
			Help: "Total number of display number counter resets",
		},
	)

	// ChaosFailureRate tracks the development backend's forced failure rate
	ChaosFailureRate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chaos_failure_rate",
			Help: "Fraction of requests the development backend fails on purpose",
		},
		[]string{"service"},
	)

	ChaosSlowMode = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chaos_slow_mode",
			Help: "Whether slow mode is enabled (1 = enabled, 0 = disabled)",
		},
		[]string{"service"},
	)
)

// PrometheusMiddleware creates a Gin middleware for automatic metrics collection
func PrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		RequestsTotal.WithLabelValues(
			serviceName,
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()

		RequestDuration.WithLabelValues(
			serviceName,
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

// ObserveRemote records one outbound call
func ObserveRemote(target, operation, outcome string, started time.Time) {
	RemoteRequestsTotal.WithLabelValues(target, operation, outcome).Inc()
	RemoteRequestDuration.WithLabelValues(target, operation).Observe(time.Since(started).Seconds())
}
