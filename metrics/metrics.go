// Package metrics exposes the service's Prometheus collectors. Counters are
// registered on the default registry and served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EnrollmentAttempts counts every enrollment attempt by terminal outcome.
	// Outcomes: success, audit_degraded, precondition_failed,
	// insufficient_balance, spot_unavailable, enrollment_failed, error.
	EnrollmentAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_enrollment_attempts_total",
		Help: "Enrollment attempts by terminal outcome.",
	}, []string{"outcome"})

	// CompensationRuns counts executed compensating actions by kind
	// (wallet_restore, spot_release).
	CompensationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_enrollment_compensations_total",
		Help: "Compensating actions executed after a failed enrollment step.",
	}, []string{"kind"})

	// LedgerRepairs counts ledger rows backfilled by the reconciler worker.
	LedgerRepairs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_ledger_repairs_total",
		Help: "Missing entry-fee ledger rows backfilled by the reconciler.",
	})

	// TournamentsArchived counts tournaments flipped to archived by the
	// archive job.
	TournamentsArchived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_tournaments_archived_total",
		Help: "Tournaments archived after their start time passed.",
	})
)
