package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/idro/reliefmatch/pkg/domain/entities"
)

const namespace = "relief"

// PlanTotals exposes per-resource totals of a computed plan
type PlanTotals interface {
	AllocatedQuantity(rt entities.ResourceType) entities.Quantity
	UnmetQuantity(rt entities.ResourceType) entities.Quantity
}

// Metrics holds the collectors for recomputation passes and operator actions
type Metrics struct {
	Recomputations    prometheus.Counter
	RecomputeDuration prometheus.Histogram
	Allocations       prometheus.Gauge
	AllocatedUnits    *prometheus.GaugeVec
	UnmetUnits        *prometheus.GaugeVec
	StatusToggles     *prometheus.CounterVec
	LogEntries        prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil registerer
// leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Recomputations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recomputations_total",
			Help:      "Number of completed allocation recomputations.",
		}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recompute_duration_seconds",
			Help:      "Wall time of one allocation recomputation.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		Allocations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "allocations",
			Help:      "Camp/provider allocations in the latest plan.",
		}),
		AllocatedUnits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "allocated_units",
			Help:      "Units assigned in the latest plan by resource type.",
		}, []string{"resource"}),
		UnmetUnits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unmet_units",
			Help:      "Units of camp need left unmet in the latest plan by resource type.",
		}, []string{"resource"}),
		StatusToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_toggles_total",
			Help:      "Operator status toggles by resulting status.",
		}, []string{"status"}),
		LogEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mission_log_entries_total",
			Help:      "Mission log lines emitted.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Recomputations,
			m.RecomputeDuration,
			m.Allocations,
			m.AllocatedUnits,
			m.UnmetUnits,
			m.StatusToggles,
			m.LogEntries,
		)
	}
	return m
}

// ObserveRecompute records one finished pass
func (m *Metrics) ObserveRecompute(duration time.Duration, allocations int, totals PlanTotals, newLogEntries int) {
	m.Recomputations.Inc()
	m.RecomputeDuration.Observe(duration.Seconds())
	m.Allocations.Set(float64(allocations))
	for _, rt := range entities.AllResourceTypes {
		m.AllocatedUnits.WithLabelValues(rt.String()).Set(float64(totals.AllocatedQuantity(rt)))
		m.UnmetUnits.WithLabelValues(rt.String()).Set(float64(totals.UnmetQuantity(rt)))
	}
	m.LogEntries.Add(float64(newLogEntries))
}

// ObserveToggle records a status change made by an operator
func (m *Metrics) ObserveToggle(to entities.AllocationStatus) {
	m.StatusToggles.WithLabelValues(to.String()).Inc()
}
