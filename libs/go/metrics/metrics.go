// Package metrics holds the Prometheus collectors for the API, the upstream
// price source and the authorization flow.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "payment_service"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of requests sent to the price source.",
		},
		[]string{"method", "path", "status"},
	)

	upstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "errors_total",
			Help:      "Total number of failed requests to the price source.",
		},
		[]string{"method", "path"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of requests to the price source, retries included.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"method", "path"},
	)

	priceCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "price_cache",
			Name:      "lookups_total",
			Help:      "Price cache lookups by result.",
		},
		[]string{"result"},
	)

	priceFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "price_cache",
			Name:      "fetches_total",
			Help:      "Upstream quote fetches by oracle id and outcome.",
		},
		[]string{"oracle_id", "outcome"},
	)

	authorizationsIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "authorization",
			Name:      "issued_total",
			Help:      "Deployment authorizations issued by deployment type.",
		},
		[]string{"deployment_type"},
	)

	verifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "authorization",
			Name:      "verifications_total",
			Help:      "Deployment authorization verifications by result.",
		},
		[]string{"valid"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		upstreamRequests,
		upstreamErrors,
		upstreamDuration,
		priceCacheLookups,
		priceFetches,
		authorizationsIssued,
		verifications,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request count and latency labelled by route template
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := strings.ToUpper(c.Request.Method)

		httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordPriceCacheLookup counts a cache hit or miss
func RecordPriceCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	priceCacheLookups.WithLabelValues(result).Inc()
}

// RecordPriceFetch counts one upstream quote fetch
func RecordPriceFetch(oracleID string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	priceFetches.WithLabelValues(oracleID, outcome).Inc()
}

// RecordAuthorizationIssued counts one signed deployment authorization
func RecordAuthorizationIssued(deploymentType string) {
	authorizationsIssued.WithLabelValues(deploymentType).Inc()
}

// RecordVerification counts one signature verification
func RecordVerification(valid bool) {
	verifications.WithLabelValues(strconv.FormatBool(valid)).Inc()
}

// UpstreamCollector reports HTTP client metrics for the price source
type UpstreamCollector struct{}

// NewUpstreamCollector returns a collector backed by the package registry
func NewUpstreamCollector() *UpstreamCollector {
	return &UpstreamCollector{}
}

// RecordRequestDuration observes the duration of one request, retries included
func (u *UpstreamCollector) RecordRequestDuration(method, path string, statusCode int, duration time.Duration) {
	upstreamDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRequestCount counts one request by final status
func (u *UpstreamCollector) RecordRequestCount(method, path string, statusCode int) {
	upstreamRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
}

// RecordRequestError counts one failed request
func (u *UpstreamCollector) RecordRequestError(method, path string) {
	upstreamErrors.WithLabelValues(method, path).Inc()
}
