package trends

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"course-trends/internal/domain"
	"course-trends/internal/httpx"
)

func newTestClient() *Client {
	c := New("https://trends.test/api", 0, 3)
	c.Retry = httpx.RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}
	return c
}

func TestFetchSeries(t *testing.T) {
	c := newTestClient()
	httpmock.ActivateNonDefault(c.HTTP)
	defer httpmock.DeactivateAndReset()

	body := `{"query":"data science","points":[
		{"date":"2020-01-05","value":55},
		{"date":"2020-01-12","value":120},
		{"date":"bogus","value":10},
		{"date":"2021-01-03","value":-4}
	]}`
	httpmock.RegisterResponder("GET", `=~^https://trends\.test/api/interest`,
		httpmock.NewStringResponder(200, body))

	series, err := c.FetchSeries(context.Background(), "data-science", "data science", 2020, 2021)
	if err != nil {
		t.Fatalf("FetchSeries() error = %v", err)
	}

	if series.Topic != "data-science" {
		t.Errorf("Expected topic 'data-science', got %q", series.Topic)
	}
	if series.Query != "data science" {
		t.Errorf("Expected query 'data science', got %q", series.Query)
	}
	// the bogus date is dropped, values clamped to 0..100
	if len(series.Points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(series.Points))
	}
	if series.Points[1].Interest != 100 {
		t.Errorf("Expected clamped interest 100, got %d", series.Points[1].Interest)
	}
	if series.Points[2].Interest != 0 {
		t.Errorf("Expected clamped interest 0, got %d", series.Points[2].Interest)
	}
}

func TestFetchSeriesRetriesRateLimit(t *testing.T) {
	c := newTestClient()
	httpmock.ActivateNonDefault(c.HTTP)
	defer httpmock.DeactivateAndReset()

	calls := 0
	httpmock.RegisterResponder("GET", `=~^https://trends\.test/api/interest`,
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls < 3 {
				return httpmock.NewStringResponse(429, "slow down"), nil
			}
			return httpmock.NewStringResponse(200, `{"query":"fitness","points":[{"date":"2020-06-07","value":40}]}`), nil
		})

	series, err := c.FetchSeries(context.Background(), "health-fitness", "fitness", 2020, 2020)
	if err != nil {
		t.Fatalf("FetchSeries() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
	if len(series.Points) != 1 {
		t.Errorf("Expected 1 point, got %d", len(series.Points))
	}
}

func TestFetchSeriesRemoteUnavailable(t *testing.T) {
	c := newTestClient()
	httpmock.ActivateNonDefault(c.HTTP)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", `=~^https://trends\.test/api/interest`,
		httpmock.NewStringResponder(500, "boom"))

	_, err := c.FetchSeries(context.Background(), "data-science", "data science", 2020, 2021)
	if err == nil {
		t.Fatal("Expected an error after exhausted retries")
	}
	if !errors.Is(err, ErrRemoteUnavailable) {
		t.Errorf("Expected ErrRemoteUnavailable, got %v", err)
	}

	info := httpmock.GetCallCountInfo()
	total := 0
	for _, n := range info {
		total += n
	}
	if total != 3 {
		t.Errorf("Expected 3 attempts, got %d", total)
	}
}

func TestClientPacing(t *testing.T) {
	c := newTestClient()
	c.Sleep = 50 * time.Millisecond
	httpmock.ActivateNonDefault(c.HTTP)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", `=~^https://trends\.test/api/interest`,
		httpmock.NewStringResponder(200, `{"query":"q","points":[]}`))

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := c.FetchSeries(context.Background(), "t", "q", 2020, 2020); err != nil {
			t.Fatalf("FetchSeries() error = %v", err)
		}
	}
	// first call is unpaced; the next two wait ~50ms each
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("Expected pacing of ~100ms across calls, elapsed %v", elapsed)
	}
}

func TestYearly(t *testing.T) {
	series := domain.TrendSeries{
		Topic: "data-science",
		Points: []domain.TrendPoint{
			{Date: time.Date(2021, 6, 6, 0, 0, 0, 0, time.UTC), Interest: 80},
			{Date: time.Date(2020, 1, 5, 0, 0, 0, 0, time.UTC), Interest: 40},
			{Date: time.Date(2020, 1, 12, 0, 0, 0, 0, time.UTC), Interest: 60},
		},
	}

	yearly := Yearly(series)
	if len(yearly) != 2 {
		t.Fatalf("Expected 2 yearly rows, got %d", len(yearly))
	}
	if yearly[0].Year != 2020 || math.Abs(yearly[0].Interest-50) > 1e-9 {
		t.Errorf("Unexpected 2020 row: %+v", yearly[0])
	}
	if yearly[1].Year != 2021 || math.Abs(yearly[1].Interest-80) > 1e-9 {
		t.Errorf("Unexpected 2021 row: %+v", yearly[1])
	}
}

func TestYearlyEmpty(t *testing.T) {
	if rows := Yearly(domain.TrendSeries{}); len(rows) != 0 {
		t.Errorf("Expected no rows for empty series, got %d", len(rows))
	}
}
