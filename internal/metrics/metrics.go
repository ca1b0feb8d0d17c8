package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DraftUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rubric_draft_updates_total",
			Help: "Total number of draft criterion updates",
		},
		[]string{"rubric"},
	)

	AssessmentsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rubric_assessments_submitted_total",
			Help: "Total number of submitted assessments",
		},
		[]string{"rubric"},
	)

	AssessmentScoreHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rubric_assessment_score",
			Help:    "Distribution of submitted assessment scores",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		},
		[]string{"rubric"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
