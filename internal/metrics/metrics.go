// Package metrics exposes basic HTTP request metrics for Servium.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts requests by route, method, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP request count by path, method, and status"},
		[]string{"path", "method", "status"},
	)
	// HTTPLatency tracks request duration by route and method.
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency)
}

// Middleware records request counts and latencies. Labels use the matched
// route pattern, not the raw URL, to keep cardinality bounded.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			HTTPLatency.WithLabelValues(path, c.Request().Method).Observe(time.Since(start).Seconds())
			HTTPRequests.WithLabelValues(path, c.Request().Method, strconv.Itoa(status)).Inc()
			return err
		}
	}
}

// Exposer returns the standard Prometheus exposition handler.
func Exposer() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
