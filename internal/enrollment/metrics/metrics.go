package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the enrollment module.
type Metrics struct {
	Operations      *prometheus.CounterVec
	PartialFailures *prometheus.CounterVec
	ListCache       *prometheus.CounterVec
	Reconciled      prometheus.Counter
	Duration        *prometheus.HistogramVec
}

// New registers the enrollment metrics with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coursebatch_enrollment_operations_total",
			Help: "Enrollment operations by operation and outcome code",
		}, []string{"op", "outcome"}),
		PartialFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coursebatch_enrollment_partial_failures_total",
			Help: "Two-step enrollment writes that stopped after the first step",
		}, []string{"step"}),
		ListCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coursebatch_enrollment_list_cache_total",
			Help: "Enrolled course list cache lookups by result",
		}, []string{"result"}),
		Reconciled: f.NewCounter(prometheus.CounterOpts{
			Name: "coursebatch_participants_reconciled_total",
			Help: "Participant set entries added or removed by reconciliation",
		}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coursebatch_enrollment_operation_duration_seconds",
			Help:    "Duration of enrollment service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op"}),
	}
}

// ObserveOperation records an outcome and the elapsed time since start.
func (m *Metrics) ObserveOperation(op, outcome string, start time.Time) {
	m.Operations.WithLabelValues(op, outcome).Inc()
	m.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementPartialFailure(step string) {
	m.PartialFailures.WithLabelValues(step).Inc()
}

func (m *Metrics) IncrementListCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ListCache.WithLabelValues(result).Inc()
}

func (m *Metrics) AddReconciled(n int) {
	m.Reconciled.Add(float64(n))
}
