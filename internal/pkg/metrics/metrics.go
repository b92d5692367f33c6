// Package metrics defines and registers the custom Prometheus metrics of the
// portal API. It is the single source of truth for metric names, labels and
// help strings. Metrics register with the default registry on import.
//
// HTTP request metrics come from echoprometheus and are not repeated here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Identity metrics ─────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success", "unknown_email", "bad_password", "locked", "not_active"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// AccountLockoutsTotal counts lockouts triggered by repeated failures.
var AccountLockoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_lockouts_total",
		Help:      "Total number of accounts locked after repeated failed logins.",
	},
)

// TokensIssuedTotal counts signed tokens.
// Label:
//   - class: "access" or "refresh"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued, by class.",
	},
	[]string{"class"},
)

// TokenRejectionsTotal counts bearer tokens rejected by the authorization gate.
// Label:
//   - reason: "missing", "invalid", "expired", "revoked", "unknown_subject",
//     "not_active", or "error" when the subject lookup itself failed
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected by the authorization gate.",
	},
	[]string{"reason"},
)

// RateLimitedTotal counts requests rejected by a rate limiter.
// Label:
//   - scope: "api" or "auth"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by rate limiting.",
	},
	[]string{"scope"},
)

// ── Resource metrics ─────────────────────────────────────────────────────────

// ResourceMutationsTotal counts successful writes on managed resources.
// Labels:
//   - resource: "user", "content", "legislator", "tab_category", "tab_link"
//   - action: "create", "update", "delete", "deactivate", "status", "reorder"
var ResourceMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resource_mutations_total",
		Help:      "Total number of successful resource mutations.",
	},
	[]string{"resource", "action"},
)

// ContentViewsTotal counts public content views by type.
var ContentViewsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_views_total",
		Help:      "Total number of public content views, by content type.",
	},
	[]string{"type"},
)
