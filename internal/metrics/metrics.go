// Package metrics exposes Prometheus instrumentation for the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// knownRoutes bounds the route label so arbitrary paths cannot grow the
// series count.
var knownRoutes = map[string]bool{
	"":           true,
	"countries":  true,
	"regions":    true,
	"subregions": true,
	"currencies": true,
	"languages":  true,
	"search":     true,
	"stats":      true,
	"health":     true,
	"metrics":    true,
}

// Metrics holds the collectors registered for one registry.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	datasetSize     prometheus.Gauge
}

// New registers the API collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "countries_api_requests_total",
				Help: "Total number of HTTP requests handled",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "countries_api_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"route", "method"},
		),
		datasetSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "countries_api_dataset_countries",
				Help: "Number of countries in the loaded dataset",
			},
		),
	}
}

// SetDatasetSize records how many countries are being served.
func (m *Metrics) SetDatasetSize(n int) {
	m.datasetSize.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts and times every request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := RouteLabel(r.URL.Path)
		m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// RouteLabel reduces a request path to its first segment, or "other".
func RouteLabel(path string) string {
	for len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			path = path[:i]
			break
		}
	}
	if !knownRoutes[path] {
		return "other"
	}
	if path == "" {
		return "/"
	}
	return path
}
