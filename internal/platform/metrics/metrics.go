// Package metrics provides Prometheus metrics for the timer engine.
// Labels are bounded enums only; session ids never become labels.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionTransitionsTotal counts successful controller transitions by operation.
	SessionTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focus_session_transitions_total",
		Help: "Total number of session state transitions, by operation.",
	}, []string{"op"})

	// SessionsEndedTotal counts terminal transitions by outcome.
	SessionsEndedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focus_sessions_ended_total",
		Help: "Total number of ended sessions, by outcome.",
	}, []string{"outcome"})

	// FocusedSecondsTotal sums active seconds of ended sessions.
	FocusedSecondsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "focus_focused_seconds_total",
		Help: "Total active seconds consumed by ended sessions.",
	})

	// NotificationArmFailuresTotal counts scheduling failures (foreground-only fallbacks).
	NotificationArmFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focus_notification_arm_failures_total",
		Help: "Total number of failed notification arm attempts, by reason.",
	}, []string{"reason"})

	// NotificationsDeliveredTotal counts notifications delivered by the daemon.
	NotificationsDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "focus_notifications_delivered_total",
		Help: "Total number of completion notifications delivered.",
	})

	// StateStoreErrorsTotal counts slot read/write/decode failures.
	StateStoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focus_state_store_errors_total",
		Help: "Total number of active slot storage failures, by operation.",
	}, []string{"op"})

	// ActiveRemainingSeconds tracks the remaining seconds last published by the ticker.
	ActiveRemainingSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "focus_active_session_remaining_seconds",
		Help: "Remaining seconds of the active session as last observed.",
	})
)
