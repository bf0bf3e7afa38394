package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     prometheus.CounterVec
	HTTPRequestDuration   prometheus.HistogramVec
	HTTPActiveConnections prometheus.GaugeVec

	// Cache metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Feed assembly metrics
	FeedAssemblyDuration prometheus.HistogramVec
	DanglingSharesTotal  prometheus.Counter

	// Notification dispatcher metrics
	NotificationsDispatchedTotal prometheus.CounterVec
	NotificationsFailedTotal     prometheus.CounterVec
	NotificationQueueDepth       prometheus.Gauge
	NotificationsDroppedTotal    prometheus.Counter

	// External auth service metrics
	AuthUpstreamRequestsTotal prometheus.CounterVec
	AuthUpstreamDuration      prometheus.HistogramVec

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			CacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_hits_total",
					Help: "Total number of cache hits",
				},
				[]string{"cache_name"},
			),
			CacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_misses_total",
					Help: "Total number of cache misses",
				},
				[]string{"cache_name"},
			),

			FeedAssemblyDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_assembly_duration_seconds",
					Help:    "Time to assemble post responses in seconds",
					Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1},
				},
				[]string{"kind"},
			),
			DanglingSharesTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "feed_dangling_shares_total",
					Help: "Share pointers whose source post no longer exists",
				},
			),

			NotificationsDispatchedTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notifications_dispatched_total",
					Help: "Notifications persisted by the background dispatcher",
				},
				[]string{"mode"},
			),
			NotificationsFailedTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notifications_failed_total",
					Help: "Notification writes that failed",
				},
				[]string{"mode"},
			),
			NotificationQueueDepth: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "notification_queue_depth",
					Help: "Events waiting in the dispatcher queue",
				},
			),
			NotificationsDroppedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "notifications_dropped_total",
					Help: "Events dropped because the dispatcher queue was full",
				},
			),

			AuthUpstreamRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "auth_upstream_requests_total",
					Help: "Requests to the external auth service",
				},
				[]string{"operation", "status"},
			),
			AuthUpstreamDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "auth_upstream_duration_seconds",
					Help:    "External auth service latency in seconds",
					Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
				},
				[]string{"operation"},
			),

			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by type",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
