// Package metrics holds the Prometheus collectors for the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steelbid_jobs_total",
			Help: "Extraction jobs by final status",
		},
		[]string{"status"},
	)

	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steelbid_batches_total",
			Help: "Extraction batches by outcome",
		},
		[]string{"outcome"},
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "steelbid_extraction_duration_seconds",
			Help:    "Time spent in one extraction call, retries included",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"model"},
	)

	SectionResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steelbid_section_resolutions_total",
			Help: "Section weight lookups by outcome",
		},
		[]string{"outcome"},
	)

	MembersExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "steelbid_members_extracted_total",
			Help: "Members accepted from extraction",
		},
	)
)

// Resolution outcomes.
const (
	Resolved = "resolved"
	Plate    = "plate"
	Varies   = "varies"
	Unknown  = "unknown"
)

func RecordJob(status string) {
	JobsTotal.WithLabelValues(status).Inc()
}

func RecordBatch(model string, ok bool, d time.Duration) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	BatchesTotal.WithLabelValues(outcome).Inc()
	ExtractionDuration.WithLabelValues(model).Observe(d.Seconds())
}

func RecordResolution(outcome string) {
	SectionResolutions.WithLabelValues(outcome).Inc()
}
