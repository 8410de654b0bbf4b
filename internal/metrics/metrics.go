// Package metrics exposes Prometheus instrumentation for the registry:
// import pipeline counters and HTTP request timings. The registry is
// owned here and handed to the web server; nothing registers globally.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avenard/clubregistry/internal/ingest"
)

// Metrics holds all collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	importRuns    prometheus.Counter
	importRecords *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		importRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "clubregistry_import_runs_total",
			Help: "Number of member import operations executed.",
		}),
		importRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clubregistry_import_records_total",
			Help: "Import records by outcome.",
		}, []string{"outcome"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clubregistry_http_request_duration_seconds",
			Help:    "HTTP request latency by method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

// ObserveImport records the outcome counts of one import run.
func (m *Metrics) ObserveImport(res *ingest.ProcessingResult) {
	m.importRuns.Inc()
	m.importRecords.WithLabelValues("new").Add(float64(res.NewRecords))
	m.importRecords.WithLabelValues("updated").Add(float64(res.UpdatedRecords))
	m.importRecords.WithLabelValues("error").Add(float64(len(res.Errors)))
	m.importRecords.WithLabelValues("skipped").Add(float64(res.SkippedRows))
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method string, status int, d time.Duration) {
	m.httpDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
