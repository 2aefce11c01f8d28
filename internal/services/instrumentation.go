package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchMessagesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campaign",
			Name:      "dispatch_messages_total",
			Help:      "Messages handed to the provider, by outcome.",
		},
		[]string{"outcome"}, // sent, failed
	)

	dispatchDurationHist = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "campaign",
			Name:      "dispatch_duration_seconds",
			Help:      "Wall time of a whole dispatch wave including persistence.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	dispatchPersistFailuresCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "campaign",
			Name:      "dispatch_persist_failures_total",
			Help:      "Dispatches whose campaign record could not be written.",
		},
	)

	metricsComputeDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "campaign",
			Name:      "metrics_compute_duration_seconds",
			Help:      "Duration of a single metric computation.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"metric"},
	)

	metricsComputeFailuresCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campaign",
			Name:      "metrics_compute_failures_total",
			Help:      "Metric computations omitted from a result because they failed.",
		},
		[]string{"metric"},
	)
)
