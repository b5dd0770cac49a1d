package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the pose pipeline.
type Metrics struct {
	registry      *prometheus.Registry
	requestsTotal prometheus.Counter
	uploadsTotal  prometheus.Counter
	rendersTotal  prometheus.Counter
	analysesTotal prometheus.Counter
	errorsTotal   prometheus.Counter
	activeRenders prometheus.Gauge
}

// New creates and registers Prometheus metrics for the service.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pose_requests_total",
		Help: "Total number of HTTP requests received",
	})
	uploadsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pose_video_uploads_total",
		Help: "Total number of videos uploaded to storage",
	})
	rendersTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pose_renders_total",
		Help: "Total number of annotated videos rendered and stored",
	})
	analysesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pose_analyses_total",
		Help: "Total number of running analyses computed",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pose_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	activeRenders := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pose_active_renders",
		Help: "Number of render pipelines currently running",
	})

	registry.MustRegister(
		requestsTotal,
		uploadsTotal,
		rendersTotal,
		analysesTotal,
		errorsTotal,
		activeRenders,
	)

	return &Metrics{
		registry:      registry,
		requestsTotal: requestsTotal,
		uploadsTotal:  uploadsTotal,
		rendersTotal:  rendersTotal,
		analysesTotal: analysesTotal,
		errorsTotal:   errorsTotal,
		activeRenders: activeRenders,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncUploads increments the video upload counter.
func (m *Metrics) IncUploads() {
	m.uploadsTotal.Inc()
}

// IncRenders increments the rendered video counter.
func (m *Metrics) IncRenders() {
	m.rendersTotal.Inc()
}

// IncAnalyses increments the computed analysis counter.
func (m *Metrics) IncAnalyses() {
	m.analysesTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// RenderStarted marks one render pipeline as running.
func (m *Metrics) RenderStarted() {
	m.activeRenders.Inc()
}

// RenderFinished marks one render pipeline as done.
func (m *Metrics) RenderFinished() {
	m.activeRenders.Dec()
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
