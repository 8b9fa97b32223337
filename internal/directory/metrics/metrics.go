// Package metrics provides Prometheus metrics for the directory loader and its interactions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all directory metrics.
type Metrics struct {
	// Upstream fetch metrics
	FetchTotal           *prometheus.CounterVec // Fetch attempts by outcome and error kind
	FetchDurationSeconds prometheus.Histogram   // Upstream fetch latency

	// Directory state
	RecordsLoaded prometheus.Gauge // Records currently held by the store

	// Interaction metrics
	SearchesTotal     *prometheus.CounterVec // Searches by result (matched, empty)
	ModalActionsTotal *prometheus.CounterVec // Modal actions by action and whether they changed state
}

// New creates a new Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a new Metrics instance registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "staffdir_fetch_total",
			Help: "Total number of upstream people fetches by outcome and error kind",
		}, []string{"outcome", "kind"}),

		FetchDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "staffdir_fetch_duration_seconds",
			Help:    "Duration of upstream people fetches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		RecordsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "staffdir_records_loaded",
			Help: "Current number of person records in the directory",
		}),

		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "staffdir_searches_total",
			Help: "Total number of searches by result",
		}, []string{"result"}),

		ModalActionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "staffdir_modal_actions_total",
			Help: "Total number of modal actions by action and whether the modal changed",
		}, []string{"action", "changed"}),
	}
}

// ObserveFetch records one upstream fetch. kind is empty on success.
func (m *Metrics) ObserveFetch(kind string, duration time.Duration) {
	outcome := "success"
	if kind != "" {
		outcome = "failure"
	}
	m.FetchTotal.WithLabelValues(outcome, kind).Inc()
	m.FetchDurationSeconds.Observe(duration.Seconds())
}

// SetRecords updates the loaded records gauge.
func (m *Metrics) SetRecords(n int) {
	m.RecordsLoaded.Set(float64(n))
}

// IncSearch records a search and whether it matched anything.
func (m *Metrics) IncSearch(matches int) {
	result := "matched"
	if matches == 0 {
		result = "empty"
	}
	m.SearchesTotal.WithLabelValues(result).Inc()
}

// IncModalAction records a modal action.
func (m *Metrics) IncModalAction(action string, changed bool) {
	c := "false"
	if changed {
		c = "true"
	}
	m.ModalActionsTotal.WithLabelValues(action, c).Inc()
}
