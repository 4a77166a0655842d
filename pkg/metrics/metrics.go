// Package metrics registers the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EmailsSent counts delivered emails by kind (otp, reminder, followup).
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventshub_emails_sent_total",
		Help: "Emails successfully handed to the mail provider, by kind.",
	}, []string{"kind"})

	// EmailsFailed counts emails that exhausted retries, by kind.
	EmailsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventshub_emails_failed_total",
		Help: "Emails that could not be delivered, by kind.",
	}, []string{"kind"})

	// SchedulerRuns counts notification scheduler ticks by outcome.
	SchedulerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventshub_scheduler_runs_total",
		Help: "Notification scheduler passes, by outcome (ok, error).",
	}, []string{"outcome"})

	// Enrollments counts enrollment state transitions.
	Enrollments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventshub_enrollments_total",
		Help: "Enrollment transitions, by action (enrolled, canceled).",
	}, []string{"action"})
)

// Email kinds.
const (
	KindOTP      = "otp"
	KindReminder = "reminder"
	KindFollowup = "followup"
)
