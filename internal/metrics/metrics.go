// Package metrics collects Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics collection for HTTP requests and the
// inventory pipeline
type Metrics struct {
	reqTotal     *prometheus.CounterVec
	reqLatency   *prometheus.HistogramVec
	cacheEvents  *prometheus.CounterVec
	sheetAppends *prometheus.CounterVec
	pinChecks    *prometheus.CounterVec
	registry     *prometheus.Registry
}

// New creates a new Metrics instance with a private Prometheus registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	reqTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	reqLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	cacheEvents := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_cache_events_total",
			Help: "Inventory snapshot cache hits, misses, invalidations and load errors",
		},
		[]string{"event"},
	)

	sheetAppends := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheet_appends_total",
			Help: "Rows appended to the request and return logs",
		},
		[]string{"target", "outcome"},
	)

	pinChecks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pin_verifications_total",
			Help: "PIN verification attempts by outcome",
		},
		[]string{"outcome"},
	)

	registry.MustRegister(reqTotal, reqLatency, cacheEvents, sheetAppends, pinChecks)

	return &Metrics{
		reqTotal:     reqTotal,
		reqLatency:   reqLatency,
		cacheEvents:  cacheEvents,
		sheetAppends: sheetAppends,
		pinChecks:    pinChecks,
		registry:     registry,
	}
}

// ObserveCache counts an inventory cache event
func (m *Metrics) ObserveCache(event string) {
	m.cacheEvents.WithLabelValues(event).Inc()
}

// ObserveAppend counts a sheet append by target log and outcome
func (m *Metrics) ObserveAppend(target, outcome string) {
	m.sheetAppends.WithLabelValues(target, outcome).Inc()
}

// ObservePin counts a PIN verification outcome
func (m *Metrics) ObservePin(outcome string) {
	m.pinChecks.WithLabelValues(outcome).Inc()
}

// Middleware returns a Chi middleware that collects metrics
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer that captures the status code
			rw := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

			next.ServeHTTP(rw, r)

			// Use Chi's route pattern if available to keep label cardinality low
			path := r.URL.Path
			if chiCtx := chi.RouteContext(r.Context()); chiCtx != nil && len(chiCtx.RoutePatterns) > 0 {
				path = chiCtx.RoutePatterns[len(chiCtx.RoutePatterns)-1]
			}

			status := http.StatusText(rw.code)
			m.reqTotal.WithLabelValues(r.Method, path, status).Inc()
			m.reqLatency.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler returns an http.Handler that serves Prometheus metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the HTTP status code for metrics
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.code = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	return sr.ResponseWriter.Write(b)
}
