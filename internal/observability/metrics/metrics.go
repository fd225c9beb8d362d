package metrics

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTPMetrics exposes request-level instruments on a dedicated registry.
type HTTPMetrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	validationsTotal *prometheus.CounterVec
	generationsTotal *prometheus.CounterVec
}

func NewHTTPMetrics() *HTTPMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &HTTPMetrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		validationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "purchase_validations_total",
			Help: "Purchase validation outcomes by provider and result.",
		}, []string{"provider", "result"}),
		generationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "message_generations_total",
			Help: "Message generation outcomes by kind and result.",
		}, []string{"kind", "result"}),
	}
	registry.MustRegister(m.requestsTotal, m.requestDuration, m.validationsTotal, m.generationsTotal)
	return m
}

// Registry returns the prometheus registry backing the /metrics endpoint.
func (m *HTTPMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveValidation records a purchase validation outcome.
func (m *HTTPMetrics) ObserveValidation(provider string, valid bool) {
	if m == nil {
		return
	}
	m.validationsTotal.WithLabelValues(provider, resultLabel(valid)).Inc()
}

// ObserveGeneration records a message generation outcome.
func (m *HTTPMetrics) ObserveGeneration(kind string, ok bool) {
	if m == nil {
		return
	}
	m.generationsTotal.WithLabelValues(kind, resultLabel(ok)).Inc()
}

// GinMiddleware records request count and latency per route.
func (m *HTTPMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		m.requestsTotal.WithLabelValues(route, method, statusLabel(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

func resultLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
