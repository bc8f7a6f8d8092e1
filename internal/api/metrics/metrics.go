// Package metrics defines and registers all custom Prometheus metrics for the
// banking API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered via promauto at package init, before the HTTP server
// starts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "banking"

// ── Ledger metrics ────────────────────────────────────────────────────────────

// OperationsTotal counts ledger operations that completed successfully.
// Labels:
//   - operation: "deposit", "withdrawal", or "transfer"
//   - account_kind: the account kind the operation applied to ("ahorros", "corriente")
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of ledger operations successfully applied.",
	},
	[]string{"operation", "account_kind"},
)

// OperationsErrorsTotal counts ledger operations that failed.
// Labels:
//   - operation: "deposit", "withdrawal", or "transfer"
//   - reason: short description of the failure (e.g. "insufficient_funds", "account_not_found", "invalid_amount")
var OperationsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_errors_total",
		Help:      "Total number of ledger operations that failed.",
	},
	[]string{"operation", "reason"},
)

// OperationsDedupTotal counts idempotency-key decisions.
// Label:
//   - result: "hit" (replay, skipped) or "miss" (new operation, applied)
var OperationsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_dedup_total",
		Help:      "Total number of idempotency checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// OperationDuration measures how long a single ledger operation takes,
// including the table load and save.
// Label:
//   - operation: "deposit", "withdrawal", or "transfer"
var OperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Duration of a ledger operation from request to persistence.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"operation"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "wrong_password", "locked", or "unknown_user"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)

// UsersRegisteredTotal counts newly registered users.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of users registered.",
	},
)
