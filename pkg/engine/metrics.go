package engine

import (
	"github.com/prometheus/client_golang/prometheus"

	"arbiter-hq/arbiter/pkg/ratelimit"
)

// Metrics tracks decision engine activity.
//
// Metrics:
//   - arbiter_decisions_total: Rate limit decisions by operation and result
//   - arbiter_assignments_total: Variant assignments by experiment and variant
//   - arbiter_bandit_selections_total: Bandit selections by arm
//   - arbiter_burst_detections_total: Burst analyses by operation and recommendation
//   - arbiter_significance_evaluations_total: Significance tests by outcome
//   - arbiter_exposure_events_total: Exposure events by experiment
//   - arbiter_ledger_swept_entries_total: Usage entries removed by sweeps
//   - arbiter_decision_duration_seconds: Decision latency by operation
type Metrics struct {
	decisions     *prometheus.CounterVec
	assignments   *prometheus.CounterVec
	selections    *prometheus.CounterVec
	bursts        *prometheus.CounterVec
	significance  *prometheus.CounterVec
	exposures     *prometheus.CounterVec
	sweptEntries  prometheus.Counter
	decisionTimes *prometheus.HistogramVec
}

// NewMetrics creates and registers engine metrics with the provided registerer.
// A nil registerer falls back to the default Prometheus registerer; passing a
// fresh prometheus.NewRegistry() keeps parallel engines from colliding.
func NewMetrics(namespace string, registerer prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "arbiter"
	}
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_total",
				Help:      "Total number of rate limit decisions",
			},
			[]string{"operation", "result"},
		),

		assignments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assignments_total",
				Help:      "Total number of variant assignments",
			},
			[]string{"experiment", "variant"},
		),

		selections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bandit_selections_total",
				Help:      "Total number of bandit arm selections",
			},
			[]string{"arm"},
		),

		bursts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "burst_detections_total",
				Help:      "Total number of burst analyses",
			},
			[]string{"operation", "recommendation"},
		),

		significance: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "significance_evaluations_total",
				Help:      "Total number of significance evaluations",
			},
			[]string{"outcome"},
		),

		exposures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exposure_events_total",
				Help:      "Total number of exposure events recorded",
			},
			[]string{"experiment"},
		),

		sweptEntries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_swept_entries_total",
				Help:      "Total number of usage entries removed by sweeps",
			},
		),

		decisionTimes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "decision_duration_seconds",
				Help:      "Duration of engine decisions in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
			[]string{"operation"},
		),
	}

	registerer.MustRegister(
		m.decisions,
		m.assignments,
		m.selections,
		m.bursts,
		m.significance,
		m.exposures,
		m.sweptEntries,
		m.decisionTimes,
	)

	return m
}

// RecordDecision records a rate limit decision.
func (m *Metrics) RecordDecision(operation string, allowed bool) {
	result := "allowed"
	if !allowed {
		result = "denied"
	}
	m.decisions.WithLabelValues(operation, result).Inc()
}

// RecordAssignment records a variant assignment.
func (m *Metrics) RecordAssignment(experiment, variant string) {
	m.assignments.WithLabelValues(experiment, variant).Inc()
}

// RecordSelection records a bandit arm selection.
func (m *Metrics) RecordSelection(arm string) {
	m.selections.WithLabelValues(arm).Inc()
}

// RecordBurstDetection records a burst analysis outcome.
func (m *Metrics) RecordBurstDetection(operation string, recommendation ratelimit.BurstRecommendation) {
	m.bursts.WithLabelValues(operation, string(recommendation)).Inc()
}

// RecordSignificance records a significance evaluation outcome.
func (m *Metrics) RecordSignificance(significant bool) {
	outcome := "not_significant"
	if significant {
		outcome = "significant"
	}
	m.significance.WithLabelValues(outcome).Inc()
}

// RecordExposure records an exposure event.
func (m *Metrics) RecordExposure(experiment string) {
	m.exposures.WithLabelValues(experiment).Inc()
}

// RecordSweep records the number of entries removed by a ledger sweep.
func (m *Metrics) RecordSweep(removed int) {
	m.sweptEntries.Add(float64(removed))
}

// ObserveDecisionDuration records the duration of an engine decision.
func (m *Metrics) ObserveDecisionDuration(operation string, seconds float64) {
	m.decisionTimes.WithLabelValues(operation).Observe(seconds)
}
