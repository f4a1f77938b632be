// Package metrics defines and registers all custom Prometheus metrics for the
// storefront console. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// through promauto; the console serves them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Upstream (REST collaborator) metrics ──────────────────────────────────────

// UpstreamRequestsTotal counts calls made to the REST API.
// Labels:
//   - route: the endpoint template (e.g. "/cart/items/:id")
//   - method: HTTP method
//   - outcome: "2xx", "4xx", "5xx" or "network"
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to the storefront REST API.",
	},
	[]string{"route", "method", "outcome"},
)

// UpstreamRequestDuration measures round-trip latency to the REST API.
// Label:
//   - route: the endpoint template
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests to the storefront REST API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionProbesTotal counts boot-time session probes.
// Labels:
//   - kind: "user" or "admin"
//   - result: "present" or "absent"
var SessionProbesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_probes_total",
		Help:      "Total number of boot-time session probes, by identity kind and result.",
	},
	[]string{"kind", "result"},
)

// SessionTransitionsTotal counts identity slot changes.
// Labels:
//   - kind: "user" or "admin"
//   - transition: "signin", "signup", "refresh" or "signout"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of identity slot transitions.",
	},
	[]string{"kind", "transition"},
)

// LogoutRemoteFailuresTotal counts logouts whose server call failed but whose
// local slot was cleared anyway.
var LogoutRemoteFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logout_remote_failures_total",
		Help:      "Total number of logouts completed locally after the server call failed.",
	},
	[]string{"kind"},
)

// ── Cart notification metrics ─────────────────────────────────────────────────

// CartSignalsTotal counts cart-change signals.
// Label:
//   - origin: "local" (this process mutated the cart) or "remote" (relayed)
var CartSignalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_signals_total",
		Help:      "Total number of cart-change signals, by origin.",
	},
	[]string{"origin"},
)

// CartListeners tracks how many listeners are attached to the cart channel.
var CartListeners = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cart_listeners",
		Help:      "Current number of listeners subscribed to cart-change signals.",
	},
)

// ── Console metrics ───────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Labels:
//   - guard: "admin" or "user"
//   - decision: "pending", "redirect" or "granted"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions.",
	},
	[]string{"guard", "decision"},
)
