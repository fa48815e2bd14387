package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Export outcomes used as the "outcome" label.
const (
	outcomeSuccess = "success"
	outcomeInvalid = "invalid"
	outcomeFailed  = "failed"
)

var (
	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrotrack_exports_total",
		Help: "Total number of report exports by format and outcome.",
	}, []string{"format", "outcome"})

	exportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agrotrack_export_duration_seconds",
		Help:    "Time spent rendering a report export.",
		Buckets: prometheus.DefBuckets,
	}, []string{"format"})
)
