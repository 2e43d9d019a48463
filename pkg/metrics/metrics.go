package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Marketplace event names recorded by IncEvent.
const (
	EventRegistered           = "registered"
	EventTaskCreated          = "task_created"
	EventApplicationSubmitted = "application_submitted"
	EventPaymentCreated       = "payment_created"
	EventReviewCreated        = "review_created"
	EventMessageSent          = "message_sent"
	EventBadgeAwarded         = "badge_awarded"
	EventReportFiled          = "report_filed"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	MarketplaceEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_events_total",
			Help: "Total number of marketplace domain events",
		},
		[]string{"event"},
	)

	InvariantRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invariant_rejections_total",
			Help: "Writes rejected by an entity invariant, by reason",
		},
		[]string{"reason"},
	)

	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_processed_total",
			Help: "Background jobs processed, by type and outcome",
		},
		[]string{"type", "status"},
	)
)

// RecordHTTPRequestDuration records one served request.
func RecordHTTPRequestDuration(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// IncEvent counts a marketplace event.
func IncEvent(event string) {
	MarketplaceEvents.WithLabelValues(event).Inc()
}

// IncInvariantRejection counts a write rejected by a domain rule.
func IncInvariantRejection(reason string) {
	InvariantRejections.WithLabelValues(reason).Inc()
}

// IncJob counts a processed background job; status is "success" or "failed".
func IncJob(taskType, status string) {
	JobsProcessed.WithLabelValues(taskType, status).Inc()
}
