// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total number of webhook HTTP requests",
		},
		[]string{"method", "status"},
	)

	SubmissionsAccepted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_submissions_accepted_total",
			Help: "Total number of form submissions written to the list",
		},
		[]string{"form", "registration_type"},
	)

	SubmissionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_submissions_failed_total",
			Help: "Total number of form submissions that failed",
		},
		[]string{"form", "error_code"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "webhook_submission_duration_seconds",
			Help: "Duration of end-to-end submission processing in seconds",
		},
		[]string{"form"},
	)

	GraphRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graph_requests_total",
			Help: "Total number of Microsoft Graph API calls",
		},
		[]string{"operation", "outcome"},
	)

	ListResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "list_resolutions_total",
			Help: "List handle resolutions by source",
		},
		[]string{"source"},
	)
)
