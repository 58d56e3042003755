// Package metrics holds prometheus collectors for the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeOK labels a successful assignment run.
	OutcomeOK = "ok"
	// OutcomeError labels a failed assignment run.
	OutcomeError = "error"
)

// AssignmentMetrics records team assignment activity. A nil value is a no-op.
type AssignmentMetrics struct {
	runs       *prometheus.CounterVec
	conflicts  prometheus.Counter
	duplicates prometheus.Counter
	duration   prometheus.Histogram
}

// NewAssignmentMetrics registers the assignment collectors on reg.
func NewAssignmentMetrics(reg prometheus.Registerer) *AssignmentMetrics {
	if reg == nil {
		return &AssignmentMetrics{}
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_runs_total",
		Help: "Team assignment runs by outcome.",
	}, []string{"outcome"})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignment_team_conflicts_total",
		Help: "Team inserts that lost a uniqueness race and fell back to lookup.",
	})
	duplicates := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignment_duplicate_memberships_total",
		Help: "Membership inserts skipped because the row already existed.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assignment_duration_seconds",
		Help:    "Duration of team assignment runs in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(runs, conflicts, duplicates, duration)
	return &AssignmentMetrics{
		runs:       runs,
		conflicts:  conflicts,
		duplicates: duplicates,
		duration:   duration,
	}
}

// ObserveRun records one run with its outcome and duration.
func (m *AssignmentMetrics) ObserveRun(outcome string, d time.Duration) {
	if m == nil || m.runs == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}

// IncConflict counts a recovered team-number conflict.
func (m *AssignmentMetrics) IncConflict() {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.Inc()
}

// IncDuplicate counts a skipped duplicate membership.
func (m *AssignmentMetrics) IncDuplicate() {
	if m == nil || m.duplicates == nil {
		return
	}
	m.duplicates.Inc()
}
