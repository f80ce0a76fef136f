// Package metrics exposes Prometheus collectors for the ledger engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "saldo"

// Metrics groups the collectors used by the service, the store and the worker.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Projections    prometheus.Counter
	ViewCache      *prometheus.CounterVec
	Mutations      *prometheus.CounterVec
	Saves          *prometheus.CounterVec
	Templates      prometheus.Gauge
	Exports        *prometheus.CounterVec
	ExportDuration prometheus.Histogram
	HTTPRejected   *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Projections: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "projections_total",
			Help:      "Total month projections computed.",
		}),
		ViewCache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "view_cache_total",
			Help:      "Month view cache lookups by result.",
		}, []string{"result"}),
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "mutations_total",
			Help:      "Ledger mutations applied by kind.",
		}, []string{"kind"}),
		Saves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "saves_total",
			Help:      "Ledger record saves by outcome.",
		}, []string{"outcome"}),
		Templates: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "templates",
			Help:      "Number of templates currently in the ledger.",
		}),
		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "exports_total",
			Help:      "Month exports to the spreadsheet by outcome.",
		}, []string{"outcome"}),
		ExportDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "export_duration_seconds",
			Help:      "Time spent exporting one month.",
			Buckets:   prometheus.DefBuckets,
		}),
		HTTPRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rejected_requests_total",
			Help:      "Requests refused before reaching a handler, by reason.",
		}, []string{"reason"}),
	}
}

func (m *Metrics) ObserveProjection() {
	if m == nil {
		return
	}
	m.Projections.Inc()
}

// ObserveCache records a view cache hit or miss.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.ViewCache.WithLabelValues("hit").Inc()
		return
	}
	m.ViewCache.WithLabelValues("miss").Inc()
}

func (m *Metrics) ObserveMutation(kind string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(kind).Inc()
}

// ObserveSave records the outcome of a persistence attempt.
func (m *Metrics) ObserveSave(err error) {
	if m == nil {
		return
	}
	m.Saves.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) SetTemplates(n int) {
	if m == nil {
		return
	}
	m.Templates.Set(float64(n))
}

// ObserveExport records one worker export and how long it took.
func (m *Metrics) ObserveExport(seconds float64, err error) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(outcome(err)).Inc()
	m.ExportDuration.Observe(seconds)
}

// ObserveRejected counts a request turned away by the rate limiter or the
// request filter.
func (m *Metrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.HTTPRejected.WithLabelValues(reason).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
