package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	Classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legal_classifications_total",
			Help: "Chat queries classified, by outcome (match or fallback) and language",
		},
		[]string{"outcome", "language"},
	)

	ClassificationConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "legal_classification_confidence",
			Help:    "Confidence reported for classified chat queries",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	IPCSuggestions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legal_ipc_suggestions_total",
			Help: "IPC section suggestions produced, by section",
		},
		[]string{"section"},
	)

	FIRsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "legal_firs_generated_total",
			Help: "FIRs filed through the portal",
		},
	)

	FIRStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legal_fir_status_changes_total",
			Help: "FIR status transitions, by new status",
		},
		[]string{"status"},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legal_notifications_total",
			Help: "FIR notifications, by channel and delivery status",
		},
		[]string{"channel", "status"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legal_events_published_total",
			Help: "Portal events written to the message bus, by type and result",
		},
		[]string{"event_type", "result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Gateway requests, by route, method and status code",
		},
		[]string{"route", "method", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Gateway request latency",
		},
		[]string{"route"},
	)
)
