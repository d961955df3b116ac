// Package metrics defines and registers all custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Collectors are registered with the default Prometheus registry on package
// init via promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Inventory engine ─────────────────────────────────────────────────────────

// OrderOperationsTotal counts engine calls by outcome.
// Labels:
//   - operation: "place", "update" or "delete"
//   - outcome: "ok", "replayed", "insufficient_stock", "not_found", "invalid" or "error"
var OrderOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_operations_total",
		Help:      "Total number of inventory engine operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// CompensationsTotal counts inverse stock adjustments after a failed write.
// Labels:
//   - operation: the engine operation that failed
//   - result: "ok" or "failed" (a failed compensation is an invariant breach)
var CompensationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_compensations_total",
		Help:      "Total number of compensating stock adjustments.",
	},
	[]string{"operation", "result"},
)

// LockWaitDuration measures time spent waiting for a per-product lock.
// Label:
//   - result: "acquired", "timeout" (wait ran out) or "error"
var LockWaitDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "product_lock_wait_seconds",
		Help:      "Time spent acquiring the per-product lock.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"result"},
)

// ── Identity ─────────────────────────────────────────────────────────────────

// TokensIssuedTotal counts minted session tokens.
// Labels:
//   - kind: "session" or "impersonation"
//   - role: role carried by the token
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued, by kind and role.",
	},
	[]string{"kind", "role"},
)

// ── Audit ────────────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events by fate.
// Labels:
//   - action: e.g. "order.placed"
//   - result: "stored", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, by action and result.",
	},
	[]string{"action", "result"},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
