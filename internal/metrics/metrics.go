// Package metrics exposes the service's Prometheus instrumentation behind one
// registry so tests can assert on counters without touching global state.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}

// Metrics holds every collector the service registers.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	LayoutDuration prometheus.Histogram
	DroppedRecords *prometheus.CounterVec

	FeedRefreshTotal *prometheus.CounterVec
	LastRefreshTime  prometheus.Gauge
}

// New builds a Metrics with its own registry, pre-registering the standard Go
// and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "timeline_http_requests_total",
			Help: "HTTP requests served, by method, path and status code.",
		}, []string{"method", "path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "timeline_http_request_duration_seconds",
			Help:    "HTTP request duration.",
			Buckets: defaultDurationBuckets,
		}, []string{"method", "path"}),
		LayoutDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "timeline_layout_compute_duration_seconds",
			Help:    "Time spent computing one layout.",
			Buckets: defaultDurationBuckets,
		}),
		DroppedRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "timeline_dropped_records_total",
			Help: "Records excluded from layouts, by drop reason.",
		}, []string{"reason"}),
		FeedRefreshTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "timeline_feed_refresh_total",
			Help: "Feed refresh runs, by outcome.",
		}, []string{"outcome"}),
		LastRefreshTime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "timeline_last_refresh_timestamp_seconds",
			Help: "Unix time of the last completed feed refresh.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest observes one served HTTP request.
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDrop counts one excluded record.
func (m *Metrics) RecordDrop(reason string) {
	m.DroppedRecords.WithLabelValues(reason).Inc()
}

// RecordRefresh marks one feed refresh run.
func (m *Metrics) RecordRefresh(ok bool, at time.Time) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.FeedRefreshTotal.WithLabelValues(outcome).Inc()
	if ok {
		m.LastRefreshTime.Set(float64(at.Unix()))
	}
}
