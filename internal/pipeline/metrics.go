package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dgallion1/cirgest/internal/bureau"
)

// Metrics are the Prometheus collectors of the extraction pipeline.
type Metrics struct {
	DocumentsProcessed *prometheus.CounterVec
	AccountsExtracted  *prometheus.CounterVec
	SentinelMisses     *prometheus.CounterVec
	DecodeFailures     prometheus.Counter
	JobDuration        *prometheus.HistogramVec
	JobsInFlight       prometheus.Gauge
}

// NewMetrics registers the pipeline collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DocumentsProcessed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cirgest_documents_processed_total",
				Help: "Reports run through extraction",
			},
			[]string{"borrower_type"},
		),
		AccountsExtracted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cirgest_accounts_extracted_total",
				Help: "Account rows extracted from reports",
			},
			[]string{"status"},
		),
		SentinelMisses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cirgest_summary_field_misses_total",
				Help: "Reports whose summary field fell back to its sentinel",
			},
			[]string{"field"},
		),
		DecodeFailures: f.NewCounter(
			prometheus.CounterOpts{
				Name: "cirgest_decode_failures_total",
				Help: "Uploaded files that could not be decoded to text",
			},
		),
		JobDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cirgest_job_duration_seconds",
				Help:    "Duration of extraction jobs in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		JobsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "cirgest_jobs_in_flight",
				Help: "Jobs currently being processed",
			},
		),
	}
}

// ObserveBatch counts the documents, accounts and summary misses of a batch.
func (m *Metrics) ObserveBatch(batch bureau.Batch) {
	for _, d := range batch.Documents {
		m.DocumentsProcessed.WithLabelValues(string(d.Summary.BorrowerType)).Inc()
		for _, r := range d.Records {
			m.AccountsExtracted.WithLabelValues(r.Status).Inc()
		}
		for _, field := range d.Summary.Missing() {
			m.SentinelMisses.WithLabelValues(field).Inc()
		}
	}
}

// ObserveJob records how long a job took to reach status.
func (m *Metrics) ObserveJob(status JobStatus, d time.Duration) {
	m.JobDuration.WithLabelValues(string(status)).Observe(d.Seconds())
}
