// Package metrics provides the Prometheus collectors of the VRU validation server.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vru"

// Metrics holds all the metric collectors for the server
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	validationRunsTotal *prometheus.CounterVec
	validationDuration  prometheus.Histogram
	validationF1Score   prometheus.Histogram

	detectionEventsTotal *prometheus.CounterVec

	processingJobsTotal  *prometheus.CounterVec
	processingJobsActive prometheus.Gauge

	eventsPublishedTotal *prometheus.CounterVec
	websocketClients     prometheus.Gauge
}

// NewMetrics creates the collectors on a fresh registry
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()
	m := &Metrics{registry: registry}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken for HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	m.validationRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_runs_total",
			Help:      "Total number of test session validations",
		},
		[]string{"status"},
	)
	m.validationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Time taken to validate a test session",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)
	m.validationF1Score = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_f1_score",
			Help:      "F1 score of completed validations",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)
	m.detectionEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detection_events_total",
			Help:      "Total number of recorded detection events",
		},
		[]string{"source"}, // api, processing
	)
	m.processingJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "processing_jobs_total",
			Help:      "Total number of finished detection jobs",
		},
		[]string{"status"},
	)
	m.processingJobsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "processing_jobs_active",
			Help:      "Number of detection jobs currently running",
		},
	)
	m.eventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of push events published",
		},
		[]string{"type"},
	)
	m.websocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Number of connected WebSocket clients",
		},
	)

	collectors := []prometheus.Collector{
		m.httpRequestsTotal, m.httpRequestDuration,
		m.validationRunsTotal, m.validationDuration, m.validationF1Score,
		m.detectionEventsTotal,
		m.processingJobsTotal, m.processingJobsActive,
		m.eventsPublishedTotal, m.websocketClients,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return m, nil
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordValidation counts a validation run
func (m *Metrics) RecordValidation(duration time.Duration, f1 float64, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.validationRunsTotal.WithLabelValues("error").Inc()
		return
	}
	m.validationRunsTotal.WithLabelValues("success").Inc()
	m.validationDuration.Observe(duration.Seconds())
	m.validationF1Score.Observe(f1)
}

// RecordDetectionEvents counts detection events stored from source
func (m *Metrics) RecordDetectionEvents(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.detectionEventsTotal.WithLabelValues(source).Add(float64(n))
}

// JobStarted marks a detection job as running
func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.processingJobsActive.Inc()
}

// JobFinished records the final status of a running job
func (m *Metrics) JobFinished(status string) {
	if m == nil {
		return
	}
	m.processingJobsActive.Dec()
	m.processingJobsTotal.WithLabelValues(status).Inc()
}

// EventPublished counts a push event
func (m *Metrics) EventPublished(eventType string) {
	if m == nil {
		return
	}
	m.eventsPublishedTotal.WithLabelValues(eventType).Inc()
}

// SetWebSocketClients records the current number of WebSocket clients
func (m *Metrics) SetWebSocketClients(n int) {
	if m == nil {
		return
	}
	m.websocketClients.Set(float64(n))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Middleware records request counts and latency per mux route template
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
