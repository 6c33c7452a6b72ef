// Package report collects run counters and renders the end-of-run summary.
package report

import (
	"github.com/prometheus/client_golang/prometheus"

	"course-trends/internal/logger"
)

// Metrics bundles Prometheus collectors for a pipeline run. The registry is
// private to the process; counters are gathered once at the end of the run
// and written to the log.
type Metrics struct {
	Registry            *prometheus.Registry
	RowsLoadedTotal     *prometheus.CounterVec
	RowsSkippedTotal    *prometheus.CounterVec
	ClassifiedTotal     *prometheus.CounterVec
	TrendsRequestsTotal prometheus.Counter
	TrendsFailuresTotal prometheus.Counter
	FilesWrittenTotal   prometheus.Counter
}

// NewMetrics constructs and registers all counters on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	rowsLoaded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursetrends_rows_loaded_total",
			Help: "Catalog rows successfully loaded, by platform.",
		},
		[]string{"platform"},
	)
	rowsSkipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursetrends_rows_skipped_total",
			Help: "Malformed catalog rows skipped, by platform.",
		},
		[]string{"platform"},
	)
	classified := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursetrends_records_classified_total",
			Help: "Records assigned to a topic, by outcome.",
		},
		[]string{"outcome"},
	)
	trendsRequests := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coursetrends_trends_requests_total",
			Help: "Search-interest series requested from the remote API.",
		},
	)
	trendsFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coursetrends_trends_failures_total",
			Help: "Search-interest series that failed after retries.",
		},
	)
	filesWritten := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coursetrends_files_written_total",
			Help: "Output files written during the run.",
		},
	)

	registry.MustRegister(rowsLoaded, rowsSkipped, classified, trendsRequests, trendsFailures, filesWritten)

	return &Metrics{
		Registry:            registry,
		RowsLoadedTotal:     rowsLoaded,
		RowsSkippedTotal:    rowsSkipped,
		ClassifiedTotal:     classified,
		TrendsRequestsTotal: trendsRequests,
		TrendsFailuresTotal: trendsFailures,
		FilesWrittenTotal:   filesWritten,
	}
}

// AddRowsLoaded records loaded rows for a platform.
func (m *Metrics) AddRowsLoaded(platform string, n int) {
	if m == nil {
		return
	}
	m.RowsLoadedTotal.WithLabelValues(platform).Add(float64(n))
}

// AddRowsSkipped records skipped rows for a platform.
func (m *Metrics) AddRowsSkipped(platform string, n int) {
	if m == nil {
		return
	}
	m.RowsSkippedTotal.WithLabelValues(platform).Add(float64(n))
}

// AddClassified records classification outcomes. outcome is "matched" or
// "unclassified".
func (m *Metrics) AddClassified(outcome string, n int) {
	if m == nil {
		return
	}
	m.ClassifiedTotal.WithLabelValues(outcome).Add(float64(n))
}

// IncTrendsRequest counts one remote series request.
func (m *Metrics) IncTrendsRequest() {
	if m == nil {
		return
	}
	m.TrendsRequestsTotal.Inc()
}

// IncTrendsFailure counts one series that failed after retries.
func (m *Metrics) IncTrendsFailure() {
	if m == nil {
		return
	}
	m.TrendsFailuresTotal.Inc()
}

// IncFileWritten counts one output file.
func (m *Metrics) IncFileWritten() {
	if m == nil {
		return
	}
	m.FilesWrittenTotal.Inc()
}

// LogSummary gathers the registry and writes every counter sample to the
// log at info level.
func (m *Metrics) LogSummary(log *logger.Logger) {
	if m == nil || log == nil {
		return
	}

	families, err := m.Registry.Gather()
	if err != nil {
		log.Warn("failed to gather run counters", "error", err)
		return
	}

	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			args := []any{"metric", fam.GetName()}
			for _, label := range metric.GetLabel() {
				args = append(args, label.GetName(), label.GetValue())
			}
			args = append(args, "value", metric.GetCounter().GetValue())
			log.Info("run counter", args...)
		}
	}
}
