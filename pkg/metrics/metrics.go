package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Outbox relay metrics
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram

	// Day view metrics
	DayViewRequests prometheus.Counter
	DayViewEvents   prometheus.Histogram
	DayViewLanes    prometheus.Histogram

	// Assignment metrics
	PrimaryHandoffs      prometheus.Counter
	AssignmentTxFailures prometheus.Counter
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully relayed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox events",
		}),
		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent relaying outbox events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		DayViewRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "day_view_requests_total",
			Help:      "Total number of day view requests served",
		}),
		DayViewEvents: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "day_view_events",
			Help:      "Events per day view response",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		DayViewLanes: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "day_view_lane_count",
			Help:      "Maximum lanes needed per caregiver column",
			Buckets:   []float64{1, 2, 3, 4, 5, 8},
		}),
		PrimaryHandoffs: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "primary_handoffs_total",
			Help:      "Total number of primary assignment handoffs",
		}),
		AssignmentTxFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "assignment_tx_failures_total",
			Help:      "Total number of failed assignment transactions",
		}),
	}
}
