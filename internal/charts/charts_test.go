package charts

import (
	"os"
	"path/filepath"
	"testing"

	"course-trends/internal/domain"
	"course-trends/internal/export"
	"course-trends/internal/trends"
)

func fixtureShares() []domain.TopicYearShare {
	return []domain.TopicYearShare{
		{Topic: "data-science", Year: 2020, Platform: domain.PlatformUdemy, Count: 10, Share: 0.25},
		{Topic: "data-science", Year: 2021, Platform: domain.PlatformUdemy, Count: 20, Share: 0.4},
		{Topic: "web-development", Year: 2020, Platform: domain.PlatformUdemy, Count: 30, Share: 0.75},
		{Topic: "web-development", Year: 2021, Platform: domain.PlatformUdemy, Count: 30, Share: 0.6},
	}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected figure at %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Errorf("Figure %s is empty", path)
	}
}

func TestShareLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shares.png")

	err := ShareLines(path, "Topic shares", fixtureShares(), []string{"data-science", "web-development"})
	if err != nil {
		t.Fatalf("ShareLines() error = %v", err)
	}
	assertPNG(t, path)
}

func TestShareLinesEmptyInputSkips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shares.png")

	if err := ShareLines(path, "Topic shares", nil, nil); err != nil {
		t.Fatalf("ShareLines() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected no figure for empty input")
	}
}

func TestTopTopicsBar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top.png")

	err := TopTopicsBar(path, "Top topics", fixtureShares()[:2])
	if err != nil {
		t.Fatalf("TopTopicsBar() error = %v", err)
	}
	assertPNG(t, path)
}

func TestShareHeatmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heatmap.png")

	err := ShareHeatmap(path, "Share heatmap", fixtureShares())
	if err != nil {
		t.Fatalf("ShareHeatmap() error = %v", err)
	}
	assertPNG(t, path)
}

func TestInterestLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interest.png")

	tables := []export.TopicYearly{
		{Topic: "data-science", Rows: []domain.YearlyInterest{
			{Year: 2020, Interest: 50},
			{Year: 2021, Interest: 60},
		}},
	}
	if err := InterestLines(path, "Search interest", tables); err != nil {
		t.Fatalf("InterestLines() error = %v", err)
	}
	assertPNG(t, path)
}

func TestRegressionScatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fit.png")

	fit := trends.LeadLag{
		Alpha: 0.01,
		Beta:  0.002,
		R2:    0.9,
		X:     []float64{10, 20, 30, 40},
		Y:     []float64{0.03, 0.05, 0.07, 0.09},
	}
	if err := RegressionScatter(path, "data-science", fit); err != nil {
		t.Fatalf("RegressionScatter() error = %v", err)
	}
	assertPNG(t, path)
}

func TestBuildGrid(t *testing.T) {
	grid := buildGrid(fixtureShares())
	if grid == nil {
		t.Fatal("Expected a grid")
	}

	cols, rows := grid.Dims()
	if cols != 2 || rows != 2 {
		t.Fatalf("Dims() = (%d, %d), want (2, 2)", cols, rows)
	}
	if grid.X(0) != 2020 || grid.X(1) != 2021 {
		t.Errorf("Year columns = (%g, %g), want (2020, 2021)", grid.X(0), grid.X(1))
	}
	// topics sort alphabetically: data-science row 0, web-development row 1
	if got := grid.Z(1, 0); got != 0.4 {
		t.Errorf("Z(1, 0) = %g, want 0.4", got)
	}
	if got := grid.Z(0, 1); got != 0.75 {
		t.Errorf("Z(0, 1) = %g, want 0.75", got)
	}
}
