// Package metrics provides Prometheus metrics for event publishing and read-model sync.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "racereg"

var (
	// PublishTotal counts publish operations by category and status.
	PublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_total",
			Help:      "Total number of events published",
		},
		[]string{"category", "status"},
	)

	// PublishDuration measures how long the broker takes to accept an event.
	PublishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_duration_seconds",
			Help:      "Duration of publish operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"category"},
	)

	// EventsReceived counts deliveries read from a queue.
	EventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_received_total",
			Help:      "Total number of events received by consumers",
		},
		[]string{"category"},
	)

	// EventsDropped counts deliveries acknowledged without reconciliation.
	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Total number of events dropped before reconciliation",
		},
		[]string{"category", "reason"},
	)

	// ReconcileTotal counts reconciliations by kind and outcome.
	ReconcileTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_total",
			Help:      "Total number of reconciliations",
		},
		[]string{"kind", "outcome"},
	)
)

// Drop reasons.
const (
	ReasonMalformed    = "malformed"
	ReasonUnclassified = "unclassified"
	ReasonDuplicate    = "duplicate"
)

// RecordPublish records a publish operation.
func RecordPublish(category, status string, d time.Duration) {
	PublishTotal.WithLabelValues(category, status).Inc()
	PublishDuration.WithLabelValues(category).Observe(d.Seconds())
}

// RecordReceived records a delivery.
func RecordReceived(category string) {
	EventsReceived.WithLabelValues(category).Inc()
}

// RecordDropped records a delivery that was acknowledged without reconciliation.
func RecordDropped(category, reason string) {
	EventsDropped.WithLabelValues(category, reason).Inc()
}

// RecordReconcile records the outcome of a reconciliation.
func RecordReconcile(kind, outcome string) {
	ReconcileTotal.WithLabelValues(kind, outcome).Inc()
}
