// Package metrics defines and registers all custom Prometheus metrics for the
// records API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed by the router at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "records"

// ── Resource metrics ──────────────────────────────────────────────────────────

// RecordWritesTotal counts successful writes against the resource collections.
// Labels:
//   - resource: "data" or "users"
//   - action: "create", "update", or "delete"
var RecordWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "writes_total",
		Help:      "Total number of successful record writes, by resource and action.",
	},
	[]string{"resource", "action"},
)

// DuplicateEmailTotal counts user writes rejected because the email was taken.
// Label:
//   - stage: "precheck" (found by lookup) or "store" (duplicate-key failure on write)
var DuplicateEmailTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_email_total",
		Help:      "Total number of user writes rejected for a duplicate email.",
	},
	[]string{"stage"},
)

// AuditFailuresTotal counts audit entries that could not be written.
var AuditFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_failures_total",
		Help:      "Total number of audit log writes that failed.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts OAuth exchange outcomes.
// Label:
//   - outcome: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Total number of completed OAuth exchanges, by outcome.",
	},
	[]string{"outcome"},
)

// GateDeniedTotal counts requests rejected by the authentication gate.
var GateDeniedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "gate_denied_total",
		Help:      "Total number of requests denied by the authentication gate.",
	},
)
