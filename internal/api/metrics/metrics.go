// Package metrics defines and registers all custom Prometheus metrics for the
// auth system. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default registry at package load; the router
// exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "authsys"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered.",
	},
)

// RecoveriesTotal counts recovery credentials issued.
var RecoveriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recoveries_total",
		Help:      "Total number of temporary recovery credentials generated.",
	},
)

// MirrorFailuresTotal counts best-effort mirror writes that failed. The
// primary store stays authoritative; this is the divergence signal.
// Label:
//   - operation: "upsert", "remove", or "mark_password_reset"
var MirrorFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mirror_failures_total",
		Help:      "Total number of failed profile mirror writes, by operation.",
	},
	[]string{"operation"},
)

// AuditFailuresTotal counts audit entries that could not be appended. Audit
// logging is advisory, so these do not fail the originating operation.
var AuditFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_failures_total",
		Help:      "Total number of audit log entries that failed to append.",
	},
)
