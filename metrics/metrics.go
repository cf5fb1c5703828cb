/*
Package metrics exposes Prometheus instrumentation for the server.

PURPOSE:
  Counters and histograms for the two interesting workloads: report
  computation (read path) and data regeneration (write path). Metrics
  live on a private registry so tests can create isolated instances and
  the /metrics endpoint serves exactly what this package registers.
*/
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	ReportRequests *prometheus.CounterVec
	ReportDuration *prometheus.HistogramVec

	Regenerations        prometheus.Counter
	RegenerationFailures prometheus.Counter
	RegenerationDuration prometheus.Histogram
	RecordsGenerated     *prometheus.CounterVec
}

// New creates a metrics set on its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		ReportRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adherence",
			Name:      "report_requests_total",
			Help:      "Report computations served, by report kind.",
		}, []string{"report"}),
		ReportDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "adherence",
			Name:      "report_duration_seconds",
			Help:      "Report computation latency, by report kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"report"}),
		Regenerations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "adherence",
			Name:      "regenerations_total",
			Help:      "Completed full data regenerations.",
		}),
		RegenerationFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "adherence",
			Name:      "regeneration_failures_total",
			Help:      "Regenerations rolled back due to errors.",
		}),
		RegenerationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "adherence",
			Name:      "regeneration_duration_seconds",
			Help:      "Full regeneration latency.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RecordsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adherence",
			Name:      "records_generated_total",
			Help:      "Records produced by the generator, by entity.",
		}, []string{"entity"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveReport records one report computation.
func (m *Metrics) ObserveReport(report string, start time.Time) {
	m.ReportRequests.WithLabelValues(report).Inc()
	m.ReportDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
}
