package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shearly_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shearly_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	contextGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shearly_context_generations_total",
		Help: "Count of business context generations by agent type and result",
	}, []string{"agent_type", "result"})

	contextGenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shearly_context_generation_duration_seconds",
		Help:    "Duration of business context pipeline runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"agent_type"})

	insightFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shearly_insight_failures_total",
		Help: "Count of insight calculators that returned an error marker",
	}, []string{"kind"})

	remindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shearly_reminders_sent_total",
		Help: "Count of SMS reminder attempts by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveContextGeneration records one pipeline run.
func ObserveContextGeneration(agentType, result string, duration time.Duration) {
	contextGenerations.WithLabelValues(agentType, result).Inc()
	contextGenerationDuration.WithLabelValues(agentType).Observe(duration.Seconds())
}

// ObserveInsightFailure counts a calculator that produced an error marker.
func ObserveInsightFailure(kind string) {
	insightFailures.WithLabelValues(kind).Inc()
}

// ObserveReminder counts one SMS reminder attempt.
func ObserveReminder(result string) {
	remindersSent.WithLabelValues(result).Inc()
}
