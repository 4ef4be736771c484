// Package metrics provides Prometheus metrics for FitCoach: chat request
// outcomes, webhook latency, rate limiting, and gamification bookkeeping.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Chat ───────────────────────────────────────────────────────────────────

// MessagesSent tracks messages accepted by the session controller.
var MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fitcoach",
	Name:      "messages_sent_total",
	Help:      "Total user messages sent to the chat webhook.",
})

// MessagesFailed tracks webhook failures by reason.
var MessagesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fitcoach",
	Name:      "messages_failed_total",
	Help:      "Total chat sends that ended in an error-flagged message.",
}, []string{"reason"})

// WebhookLatency tracks chat webhook round-trip duration in seconds.
var WebhookLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "fitcoach",
	Name:      "webhook_latency_seconds",
	Help:      "Chat webhook request duration in seconds.",
	Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 20, 30},
})

// RateLimited tracks sends rejected by the client-side limiter.
var RateLimited = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fitcoach",
	Name:      "rate_limited_total",
	Help:      "Total sends rejected by the sliding-window rate limiter.",
})

// ─── Gamification ───────────────────────────────────────────────────────────

// LevelUps tracks committed level-up transitions.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fitcoach",
	Name:      "level_ups_total",
	Help:      "Total level-up events persisted.",
})

// BadgesEarned tracks committed badge unlocks.
var BadgesEarned = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fitcoach",
	Name:      "badges_earned_total",
	Help:      "Total badges earned and persisted.",
})

// PersistRollbacks tracks optimistic updates reverted after a failed
// persistence attempt.
var PersistRollbacks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fitcoach",
	Name:      "persist_rollbacks_total",
	Help:      "Total gamification updates rolled back on store failure.",
})
