package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics собирает метрики входящих HTTP-запросов.
type HTTPMetrics struct {
	service  string
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics регистрирует метрики HTTP для сервиса.
func NewHTTPMetrics(registerer prometheus.Registerer, service string) *HTTPMetrics {
	return &HTTPMetrics{
		service: service,
		requests: newCounterVec(registerer, prometheus.CounterOpts{
			Name: "lugx_http_requests_total",
			Help: "Total number of HTTP requests",
		}, "service", "method", "route", "status"),
		duration: newHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "lugx_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, "service", "method", "route"),
	}
}

// Middleware — gin-middleware, пишущая счётчик и латентность по шаблону маршрута.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.requests.WithLabelValues(m.service, c.Request.Method, route, status).Inc()
		m.duration.WithLabelValues(m.service, c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
