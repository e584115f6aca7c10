// Package metrics exporta métricas Prometheus del servicio.
package metrics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados de un webhook
const (
	OutcomeApplied  = "applied"
	OutcomeSkipped  = "skipped"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	webhooks     *prometheus.CounterVec
	syncRecords  *prometheus.CounterVec
	searchCache  *prometheus.CounterVec
}

// New crea las métricas sobre un registry propio
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request durations.",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "endpoint", "status"},
		),
		webhooks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_webhook_events_total",
				Help: "Shopify product webhooks processed, by action and outcome.",
			},
			[]string{"action", "outcome"},
		),
		syncRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_sync_records_total",
				Help: "Products handled by the bulk sync, by result.",
			},
			[]string{"result"},
		),
		searchCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_search_cache_total",
				Help: "Search cache lookups, by result.",
			},
			[]string{"result"},
		),
	}
	registry.MustRegister(m.httpRequests, m.httpDuration, m.webhooks, m.syncRecords, m.searchCache)
	return m
}

// RecordRequest registra un request HTTP
func (m *Metrics) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	m.httpRequests.WithLabelValues(method, endpoint, status).Inc()
	m.httpDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

func (m *Metrics) RecordWebhook(action, outcome string) {
	m.webhooks.WithLabelValues(action, outcome).Inc()
}

// RecordSync suma los resultados de una corrida de sincronización
func (m *Metrics) RecordSync(synced, skipped, failed int) {
	m.syncRecords.WithLabelValues("synced").Add(float64(synced))
	m.syncRecords.WithLabelValues("skipped").Add(float64(skipped))
	m.syncRecords.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) RecordCache(hit bool) {
	if hit {
		m.searchCache.WithLabelValues("hit").Inc()
		return
	}
	m.searchCache.WithLabelValues("miss").Inc()
}

// Middleware mide cada request usando la ruta registrada, no la URL cruda
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.RecordRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}

// Handler expone el registry en formato Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}
