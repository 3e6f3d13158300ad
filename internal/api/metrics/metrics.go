// Package metrics defines and registers all custom Prometheus metrics for the
// food ordering API. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics register themselves with the default Prometheus registry on
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "orderfood"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SessionsValidatedTotal counts session validation outcomes on incoming requests.
// Label:
//   - result: "valid", "none" (no session), or "error" (provider failure)
var SessionsValidatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_validated_total",
		Help:      "Total number of session validations, by result.",
	},
	[]string{"result"},
)

// AuthzDecisionsTotal counts authorization decisions made by the route guard.
// Label:
//   - decision: "allow", "login_redirect", "inactive_redirect", or "dashboard_redirect"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of route authorization decisions, by outcome.",
	},
	[]string{"decision"},
)

// LoginsTotal counts sign-in attempts.
// Labels:
//   - method: "password" or "oauth"
//   - result: "success", "invalid", "inactive", or "reconcile_failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of sign-in attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// ReconciliationsTotal counts identity reconciliation outcomes.
// Label:
//   - outcome: "success" or "failed"
var ReconciliationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciliations_total",
		Help:      "Total number of identity reconciliations, by outcome.",
	},
	[]string{"outcome"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersPlacedTotal counts successfully placed orders.
var OrdersPlacedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed.",
	},
)

// KitchenEventsTotal counts kitchen status events that completed processing.
// Labels:
//   - status: the new order status applied by the event (e.g. "preparing")
//   - result: "applied", "duplicate", or "error"
var KitchenEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "kitchen_events_total",
		Help:      "Total number of kitchen status events, by status and result.",
	},
	[]string{"status", "result"},
)

// KitchenQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var KitchenQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "kitchen_queue_depth",
		Help:      "Current number of kitchen events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// KitchenEventDuration measures how long a single kitchen event takes to process.
// Label:
//   - status: the resulting order status, or "error" on failure
var KitchenEventDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "kitchen_event_duration_seconds",
		Help:      "Duration of kitchen event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"status"},
)
