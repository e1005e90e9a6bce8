// Package metricspkg exposes Prometheus metrics for the HTTP API.
package metricspkg

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the app metrics registry and instruments.
type Collector struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewCollector returns a Collector with all instruments registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		requestsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of handled HTTP requests",
		}, []string{"method", "path", "status"}),
		requestDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time taken to handle an HTTP request",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// Handler returns the scrape endpoint handler for the collector registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware instruments every gin request with count and duration metrics.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(gctx *gin.Context) {
		start := time.Now()

		gctx.Next()

		path := gctx.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.requestsTotal.WithLabelValues(
			gctx.Request.Method,
			path,
			strconv.Itoa(gctx.Writer.Status()),
		).Inc()

		c.requestDuration.WithLabelValues(gctx.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}
