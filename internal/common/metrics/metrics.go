// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_requests_total",
			Help: "Chat requests answered, by final intent",
		},
		[]string{"intent"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatbot_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	AnalyzerResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_analyzer_results_total",
			Help: "Analysis results produced by each analyzer, by intent",
		},
		[]string{"analyzer", "intent"},
	)

	FusionDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_fusion_decisions_total",
			Help: "Which reconciliation rule the fusion analyzer applied",
		},
		[]string{"rule"},
	)

	CollaboratorErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_collaborator_errors_total",
			Help: "Failed calls to external collaborators, by collaborator and error code",
		},
		[]string{"collaborator", "error_code"},
	)

	FallbackGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_fallback_generation_total",
			Help: "Generative fallback outcomes (generated, timeout, empty, error)",
		},
		[]string{"outcome"},
	)

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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)
