// Package metrics defines the Prometheus collectors for the ingestion
// pipeline. All collectors register against the default registry and are
// served by the /metrics endpoint of the API server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// Outcome labels for SightingsSubmitted.
const (
	OutcomeValidated = "validated"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

//nolint: gochecknoglobals
var (
	// SightingsSubmitted counts processed price submissions by outcome.
	SightingsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "buscador",
		Subsystem: "pipeline",
		Name:      "sightings_submitted_total",
		Help:      "Number of processed price sightings by outcome.",
	}, []string{"outcome"})

	// NotificationsEmitted counts notifications written by the fan-out step.
	NotificationsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "buscador",
		Subsystem: "pipeline",
		Name:      "notifications_emitted_total",
		Help:      "Number of alert notifications emitted for validated sightings.",
	})

	// SubmitRetries counts submissions that had to retry their transactional
	// unit after a conflict or transient storage failure.
	SubmitRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "buscador",
		Subsystem: "pipeline",
		Name:      "submit_retries_total",
		Help:      "Number of retried submission transactions.",
	})

	// SubmitDuration observes the wall time of the whole submission unit of work.
	SubmitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "buscador",
		Subsystem: "pipeline",
		Name:      "submit_duration_seconds",
		Help:      "Latency of the submission pipeline, including retries.",
		Buckets:   DefaultBuckets,
	})
)
