package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce              sync.Once
	apiRequestsTotal          *prometheus.CounterVec
	apiLatencySeconds         *prometheus.HistogramVec
	submissionsCreatedTotal   prometheus.Counter
	assessmentsCompletedTotal *prometheus.CounterVec
	assessmentSeconds         prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used by the API and
// the submission pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillforge_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skillforge_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		submissionsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillforge_submissions_created_total",
			Help: "Total number of submissions accepted for assessment.",
		})

		assessmentsCompletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillforge_assessments_completed_total",
			Help: "Background assessments that reached a terminal state, by outcome.",
		}, []string{"outcome"})

		assessmentSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skillforge_assessment_duration_seconds",
			Help:    "Wall-clock duration of background submission assessments.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, submissionsCreatedTotal, assessmentsCompletedTotal, assessmentSeconds)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// SubmissionsCreated exposes the counter for accepted submissions.
func SubmissionsCreated() prometheus.Counter {
	RegisterMetrics()
	return submissionsCreatedTotal
}

// AssessmentsCompleted exposes the terminal-outcome counter for assessments.
func AssessmentsCompleted() *prometheus.CounterVec {
	RegisterMetrics()
	return assessmentsCompletedTotal
}

// AssessmentDuration exposes the assessment duration histogram.
func AssessmentDuration() prometheus.Histogram {
	RegisterMetrics()
	return assessmentSeconds
}
