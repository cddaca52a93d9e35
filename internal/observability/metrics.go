package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one process. Each instance owns
// its registry so tests can create as many as they need.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	computeDuration prometheus.Histogram
	recordsLoaded   prometheus.Gauge
	exports         *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		computeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_compute_duration_seconds",
			Help:    "Time spent filtering, aggregating and comparing periods.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		recordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_records_loaded",
			Help: "Transactions held in memory.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_exports_total",
			Help: "Exports served by format.",
		}, []string{"format"}),
	}

	registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.computeDuration,
		m.recordsLoaded,
		m.exports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) ObserveCompute(d time.Duration) {
	if m == nil {
		return
	}
	m.computeDuration.Observe(d.Seconds())
}

func (m *Metrics) SetRecordsLoaded(n int) {
	if m == nil {
		return
	}
	m.recordsLoaded.Set(float64(n))
}

func (m *Metrics) CountExport(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}

// Handler serves the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
