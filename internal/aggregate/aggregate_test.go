package aggregate

import (
	"math"
	"testing"

	"course-trends/internal/domain"
)

func TestSharesScenario(t *testing.T) {
	// 100 Udemy courses in 2021, 10 of them data-science.
	var records []domain.Classified
	for i := 0; i < 10; i++ {
		records = append(records, domain.Classified{Topic: "data-science", Year: 2021, Platform: domain.PlatformUdemy})
	}
	for i := 0; i < 90; i++ {
		records = append(records, domain.Classified{Topic: "business-finance", Year: 2021, Platform: domain.PlatformUdemy})
	}

	shares := Shares(records)
	if len(shares) != 2 {
		t.Fatalf("Expected 2 share rows, got %d", len(shares))
	}

	var ds domain.TopicYearShare
	for _, s := range shares {
		if s.Topic == "data-science" {
			ds = s
		}
	}
	if ds.Count != 10 {
		t.Errorf("Expected count 10, got %d", ds.Count)
	}
	if math.Abs(ds.Share-0.10) > 1e-9 {
		t.Errorf("Expected share 0.10, got %f", ds.Share)
	}
}

func TestSharesSumToOne(t *testing.T) {
	records := []domain.Classified{
		{Topic: "data-science", Year: 2020, Platform: domain.PlatformUdemy},
		{Topic: "web-development", Year: 2020, Platform: domain.PlatformUdemy},
		{Topic: "web-development", Year: 2020, Platform: domain.PlatformUdemy},
		{Topic: "unclassified", Year: 2020, Platform: domain.PlatformUdemy},
		{Topic: "data-science", Year: 2021, Platform: domain.PlatformUdemy},
		{Topic: "business-finance", Year: 2024, Platform: domain.PlatformCoursera},
		{Topic: "data-science", Year: 2024, Platform: domain.PlatformCoursera},
		{Topic: "health-fitness", Year: 2024, Platform: domain.PlatformCoursera},
	}

	shares := Shares(records)

	type group struct {
		platform domain.Platform
		year     int
	}
	sums := make(map[group]float64)
	for _, s := range shares {
		sums[group{s.Platform, s.Year}] += s.Share
	}

	for g, sum := range sums {
		if math.Abs(sum-1.0) > 1e-6 {
			t.Errorf("Shares for (%s, %d) sum to %f, want 1.0", g.platform, g.year, sum)
		}
	}
}

func TestSharesEmptyInput(t *testing.T) {
	if shares := Shares(nil); len(shares) != 0 {
		t.Errorf("Expected no rows for empty input, got %d", len(shares))
	}
}

func TestSharesDeterministicOrder(t *testing.T) {
	records := []domain.Classified{
		{Topic: "b", Year: 2021, Platform: domain.PlatformUdemy},
		{Topic: "a", Year: 2021, Platform: domain.PlatformUdemy},
		{Topic: "a", Year: 2020, Platform: domain.PlatformUdemy},
		{Topic: "a", Year: 2020, Platform: domain.PlatformCoursera},
	}

	shares := Shares(records)

	expected := []struct {
		platform domain.Platform
		year     int
		topic    string
	}{
		{domain.PlatformCoursera, 2020, "a"},
		{domain.PlatformUdemy, 2020, "a"},
		{domain.PlatformUdemy, 2021, "a"},
		{domain.PlatformUdemy, 2021, "b"},
	}
	for i, e := range expected {
		s := shares[i]
		if s.Platform != e.platform || s.Year != e.year || s.Topic != e.topic {
			t.Errorf("Row %d = (%s, %d, %s), want (%s, %d, %s)",
				i, s.Platform, s.Year, s.Topic, e.platform, e.year, e.topic)
		}
	}
}

func TestTopNTieBreak(t *testing.T) {
	records := []domain.Classified{
		{Topic: "zebra", Year: 2024, Platform: domain.PlatformCoursera},
		{Topic: "alpha", Year: 2024, Platform: domain.PlatformCoursera},
		{Topic: "mango", Year: 2024, Platform: domain.PlatformCoursera},
		{Topic: "mango", Year: 2024, Platform: domain.PlatformCoursera},
	}

	top := TopN(Shares(records), domain.PlatformCoursera, 2024, 2)
	if len(top) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(top))
	}
	if top[0].Topic != "mango" {
		t.Errorf("Expected 'mango' first, got %q", top[0].Topic)
	}
	// alpha and zebra are tied; name ascending wins.
	if top[1].Topic != "alpha" {
		t.Errorf("Expected 'alpha' second on tie, got %q", top[1].Topic)
	}
}

func TestForTopicSortedByYear(t *testing.T) {
	records := []domain.Classified{
		{Topic: "data-science", Year: 2022, Platform: domain.PlatformUdemy},
		{Topic: "data-science", Year: 2020, Platform: domain.PlatformUdemy},
		{Topic: "data-science", Year: 2021, Platform: domain.PlatformUdemy},
		{Topic: "other", Year: 2021, Platform: domain.PlatformUdemy},
	}

	rows := ForTopic(Shares(records), domain.PlatformUdemy, "data-science")
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Year < rows[i-1].Year {
			t.Errorf("Rows not sorted by year: %+v", rows)
		}
	}
}

func TestYearRange(t *testing.T) {
	records := []domain.Classified{
		{Topic: "a", Year: 2014, Platform: domain.PlatformUdemy},
		{Topic: "a", Year: 2019, Platform: domain.PlatformUdemy},
		{Topic: "a", Year: 2024, Platform: domain.PlatformCoursera},
	}
	shares := Shares(records)

	min, max, ok := YearRange(shares, domain.PlatformUdemy)
	if !ok || min != 2014 || max != 2019 {
		t.Errorf("YearRange(udemy) = (%d, %d, %v), want (2014, 2019, true)", min, max, ok)
	}

	if _, _, ok := YearRange(shares, domain.Platform("none")); ok {
		t.Error("Expected no year range for unknown platform")
	}

	year, ok := LatestYear(shares, domain.PlatformCoursera)
	if !ok || year != 2024 {
		t.Errorf("LatestYear(coursera) = (%d, %v), want (2024, true)", year, ok)
	}
}
