package report

import (
	"testing"

	"course-trends/internal/logger"
)

func TestNewMetricsRegistersCollectors(t *testing.T) {
	m := NewMetrics()
	if m.Registry == nil {
		t.Fatal("Expected a registry")
	}

	m.AddRowsLoaded("udemy", 10)
	m.AddRowsSkipped("udemy", 2)
	m.AddClassified("matched", 8)
	m.AddClassified("unclassified", 2)
	m.IncTrendsRequest()
	m.IncTrendsFailure()
	m.IncFileWritten()

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) != 6 {
		t.Errorf("Expected 6 metric families, got %d", len(families))
	}

	byName := map[string]float64{}
	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			byName[fam.GetName()] += metric.GetCounter().GetValue()
		}
	}

	if byName["coursetrends_rows_loaded_total"] != 10 {
		t.Errorf("rows loaded = %g, want 10", byName["coursetrends_rows_loaded_total"])
	}
	if byName["coursetrends_rows_skipped_total"] != 2 {
		t.Errorf("rows skipped = %g, want 2", byName["coursetrends_rows_skipped_total"])
	}
	if byName["coursetrends_records_classified_total"] != 10 {
		t.Errorf("classified = %g, want 10", byName["coursetrends_records_classified_total"])
	}
	if byName["coursetrends_trends_requests_total"] != 1 {
		t.Errorf("trends requests = %g, want 1", byName["coursetrends_trends_requests_total"])
	}
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.AddRowsLoaded("udemy", 1)
	m.AddRowsSkipped("udemy", 1)
	m.AddClassified("matched", 1)
	m.IncTrendsRequest()
	m.IncTrendsFailure()
	m.IncFileWritten()
	m.LogSummary(logger.New("info"))
}
