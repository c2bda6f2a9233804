package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bstlayout"

// Metrics exports pipeline, cache and HTTP events as Prometheus
// collectors on a private registry. It implements all three hook
// interfaces, so one value can be registered for each.
type Metrics struct {
	registry *prometheus.Registry

	stageActive   *prometheus.GaugeVec
	stageRuns     *prometheus.CounterVec
	stageErrors   *prometheus.CounterVec
	stageItems    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them, together with the
// Go runtime and process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	stage := []string{"stage"}
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		stageActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "stage", Name: "in_progress",
			Help: "Pipeline stages currently running.",
		}, stage),
		stageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "stage", Name: "runs_total",
			Help: "Completed pipeline stage runs.",
		}, stage),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "stage", Name: "errors_total",
			Help: "Pipeline stage runs that returned an error.",
		}, stage),
		stageItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "stage", Name: "items_total",
			Help: "Stage output size: tokens, nodes or bytes.",
		}, stage),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "stage", Name: "duration_seconds",
			Help:    "Pipeline stage latency.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, stage),

		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "events_total",
			Help: "Cache lookups and writes by outcome.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "written_bytes_total",
			Help: "Bytes written to the cache.",
		}, []string{"key_type"}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Served HTTP requests by method and status class.",
		}, []string{"method", "class"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.stageActive, m.stageRuns, m.stageErrors, m.stageItems, m.stageDuration,
		m.cacheEvents, m.cacheBytes,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// Register installs m as the pipeline, cache and HTTP hooks.
func (m *Metrics) Register() {
	SetPipelineHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) OnStageStart(_ context.Context, stage Stage) {
	m.stageActive.WithLabelValues(string(stage)).Inc()
}

func (m *Metrics) OnStageComplete(_ context.Context, stage Stage, items int, d time.Duration, err error) {
	s := string(stage)
	m.stageActive.WithLabelValues(s).Dec()
	m.stageRuns.WithLabelValues(s).Inc()
	m.stageItems.WithLabelValues(s).Add(float64(items))
	m.stageDuration.WithLabelValues(s).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(s).Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest counts the request. The path is not used as a label.
func (m *Metrics) OnRequest(_ context.Context, method, _ string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, statusClass(status)).Inc()
	m.httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return strconv.Itoa(status/100) + "xx"
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
