// Package metrics exposes request and access-control counters for Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dogwatch-dev/dogwatch/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	accessDenied    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dogwatch_http_requests_total",
			Help: "HTTP requests by operation and status code.",
		}, []string{"operation", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dogwatch_http_request_duration_seconds",
			Help:    "HTTP request latency by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		accessDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dogwatch_access_denied_total",
			Help: "Requests rejected by the access gate or ownership check.",
		}, []string{"operation", "reason"}),
	}

	m.registry.MustRegister(m.requests, m.requestDuration, m.accessDenied)
	return m
}

// Middleware records every request under its operation name.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		op := ctx.GetString(types.ContextOperationKey)
		if op == "" {
			op = "unknown"
		}

		m.requests.WithLabelValues(op, strconv.Itoa(ctx.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// AccessDenied counts a rejection. reason is "unauthenticated" or "forbidden".
func (m *Metrics) AccessDenied(operation, reason string) {
	m.accessDenied.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
