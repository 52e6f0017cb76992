// Package metrics defines and registers all custom Prometheus metrics
// for the storefront session agent. It is the single source of truth
// for metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Session metrics ──────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "conflict" or "failure"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// HydrationsTotal counts startup hydrations.
// Label:
//   - result: "success" or "failure"
var HydrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hydrations_total",
		Help:      "Total number of session hydrations, by result.",
	},
	[]string{"result"},
)

// SessionInvalidationsTotal counts reactive session downgrades after
// the backend rejected the credential on an authenticated request.
var SessionInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of sessions invalidated by a rejected credential.",
	},
)

// ── Submission metrics ───────────────────────────────────────────────

// SubmissionsTotal counts workflow runs.
// Label:
//   - result: "success", "partial" (uploaded, notify failed), "failure"
var SubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Total number of design submissions, by result.",
	},
	[]string{"result"},
)

// SubmissionPhaseErrorsTotal counts per-stage workflow failures.
// Label:
//   - stage: "auth", "upload" or "notify"
var SubmissionPhaseErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submission_phase_errors_total",
		Help:      "Total number of submission failures, by failing stage.",
	},
	[]string{"stage"},
)

// SubmissionDuration measures one workflow run end-to-end.
// Label:
//   - result: "success", "partial" or "failure"
var SubmissionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "submission_duration_seconds",
		Help:      "Duration of a design submission from upload start to notify ack.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
