package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)
)

// Merge Metrics
var (
	MergesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMergesTotal,
			Help: HelpTextMergesTotal,
		},
		[]string{LabelOutcome},
	)

	ConflictingMerges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameConflictingMerges,
			Help: HelpTextConflictingMerges,
		},
	)

	MergeCost = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameMergeCost,
			Help:    HelpTextMergeCost,
			Buckets: MergeCostBuckets,
		},
	)

	MergeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMergeCacheHits,
			Help: HelpTextMergeCacheHits,
		},
	)

	StaleViewUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStaleViewUpdates,
			Help: HelpTextStaleViewUpdates,
		},
	)

	AuditFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAuditFailures,
			Help: HelpTextAuditFailures,
		},
	)
)

// RecordMerge counts one merge evaluation.
func RecordMerge(outcome string, hasConflicts bool, cost int) {
	MergesTotal.WithLabelValues(outcome).Inc()
	if hasConflicts {
		ConflictingMerges.Inc()
	}
	if outcome == OutcomeAllowed {
		MergeCost.Observe(float64(cost))
	}
}
