// Package metrics collects and exposes Prometheus metrics for the HTTP
// surface and the store mutation pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	mutations   *prometheus.CounterVec
	rollbacks   prometheus.Counter
	activeUsers prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myprompt_http_requests_total",
			Help: "HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "myprompt_http_request_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myprompt_store_mutations_total",
			Help: "Store mutations by action and outcome.",
		}, []string{"action", "outcome"}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "myprompt_store_rollbacks_total",
			Help: "Optimistic mutations rolled back after commit failure.",
		}),
		activeUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "myprompt_active_workspaces",
			Help: "Hydrated per-user workspace stores currently held.",
		}),
	}

	c.registry.MustRegister(c.requests, c.latency, c.mutations, c.rollbacks, c.activeUsers)
	return c
}

// Middleware records request counts and latency per route template.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.requests.WithLabelValues(ctx.Request.Method, route,
			strconv.Itoa(ctx.Writer.Status())).Inc()
		c.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the /metrics scrape endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RecordMutation(action string, ok bool) {
	outcome := "committed"
	if !ok {
		outcome = "rolled_back"
		c.rollbacks.Inc()
	}
	c.mutations.WithLabelValues(action, outcome).Inc()
}

func (c *Collector) SetActiveWorkspaces(n int) {
	c.activeUsers.Set(float64(n))
}
