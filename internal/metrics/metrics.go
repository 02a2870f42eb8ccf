// Package metrics exposes Prometheus collectors for forecast runs and
// reminder delivery.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ProjectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cashflow",
	Subsystem: "forecast",
	Name:      "projections_total",
	Help:      "Total projections computed, by origin and outcome.",
}, []string{"origin", "outcome"})

var ProjectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "cashflow",
	Subsystem: "forecast",
	Name:      "projection_duration_seconds",
	Help:      "Time spent loading a snapshot and projecting it.",
	Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
})

var ProjectionEvents = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "cashflow",
	Subsystem: "forecast",
	Name:      "projection_events",
	Help:      "Number of events produced per projection.",
	Buckets:   []float64{0, 5, 10, 25, 50, 100, 250, 500},
})

var RemindersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cashflow",
	Subsystem: "reminders",
	Name:      "sent_total",
	Help:      "Reminder emails by kind and result.",
}, []string{"kind", "result"})
