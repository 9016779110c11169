// Package metrics holds Prometheus metrics for booking admission.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Admission outcomes.
const (
	OutcomeAdmitted  = "admitted"
	OutcomeMalformed = "malformed"
	OutcomeConflict  = "conflict"
	OutcomeReplayed  = "replayed"
	OutcomeKeyReused = "key_reused"
	OutcomeError     = "error"
)

type Metrics struct {
	// AdmissionsTotal counts booking attempts by outcome and kind
	// (single or series).
	AdmissionsTotal *prometheus.CounterVec

	// AdmissionDuration is the time spent inside the admission critical
	// section.
	AdmissionDuration prometheus.Histogram

	// DeletionsTotal counts removed appointments by operation.
	DeletionsTotal *prometheus.CounterVec
}

// New creates the metrics and registers them with reg. A nil reg registers
// nothing, which keeps tests independent of the default registry.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AdmissionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "admissions_total",
				Help:      "Total number of booking attempts by outcome",
			},
			[]string{"outcome", "kind"},
		),

		AdmissionDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "admission_duration_seconds",
				Help:      "Time spent checking conflicts and persisting a booking",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
			},
		),

		DeletionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deletions_total",
				Help:      "Total number of appointment deletions",
			},
			[]string{"op"},
		),
	}
}

func (m *Metrics) IncAdmission(outcome, kind string) {
	if m == nil {
		return
	}
	m.AdmissionsTotal.WithLabelValues(outcome, kind).Inc()
}

func (m *Metrics) ObserveAdmission(d time.Duration) {
	if m == nil {
		return
	}
	m.AdmissionDuration.Observe(d.Seconds())
}

func (m *Metrics) IncDeletion(op string) {
	if m == nil {
		return
	}
	m.DeletionsTotal.WithLabelValues(op).Inc()
}
