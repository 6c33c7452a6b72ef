// Package trends talks to the external search-interest API and reshapes its
// series for the share tables. The remote is best-effort: every failure
// surfaces as ErrRemoteUnavailable and the pipeline carries on without that
// topic.
package trends

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"course-trends/internal/domain"
	"course-trends/internal/httpx"
)

// ErrRemoteUnavailable marks a topic whose series could not be fetched
// after bounded retries.
var ErrRemoteUnavailable = errors.New("trends: remote unavailable")

const dateLayout = "2006-01-02"

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Retry   httpx.RetryConfig

	// Sleep is the fixed pause between consecutive fetches, to respect the
	// remote's rate limits.
	Sleep time.Duration

	lastFetch time.Time
}

func New(baseURL string, sleep time.Duration, maxAttempts int) *Client {
	retry := httpx.DefaultRetryConfig()
	if maxAttempts > 0 {
		retry.MaxAttempts = maxAttempts
	}
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: 2 * time.Minute, // per request
		},
		Retry: retry,
		Sleep: sleep,
	}
}

/* -------- Response -------- */

type interestResponse struct {
	Query  string          `json:"query"`
	Points []interestPoint `json:"points"`
}

type interestPoint struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

/* -------- API -------- */

// FetchSeries requests the weekly interest series for one topic over a
// closed year range. Calls are paced by c.Sleep; retries and backoff are
// handled by the httpx layer. On exhausted retries the error wraps
// ErrRemoteUnavailable.
func (c *Client) FetchSeries(ctx context.Context, topic, query string, startYear, endYear int) (domain.TrendSeries, error) {
	if err := c.pace(ctx); err != nil {
		return domain.TrendSeries{}, err
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("start", fmt.Sprintf("%d-01-01", startYear))
	q.Set("end", fmt.Sprintf("%d-12-31", endYear))
	endpoint := fmt.Sprintf("%s/interest?%s", c.BaseURL, q.Encode())

	var resp interestResponse
	if err := httpx.GetJSON(ctx, c.HTTP, endpoint, &resp, c.Retry); err != nil {
		if errors.Is(err, context.Canceled) {
			return domain.TrendSeries{}, err
		}
		return domain.TrendSeries{}, fmt.Errorf("%w: topic=%s: %v", ErrRemoteUnavailable, topic, err)
	}

	series := domain.TrendSeries{Topic: topic, Query: resp.Query}
	if series.Query == "" {
		series.Query = query
	}
	for _, p := range resp.Points {
		d, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			// one bad point should not sink the series
			continue
		}
		series.Points = append(series.Points, domain.TrendPoint{
			Date:     d,
			Interest: clampInterest(p.Value),
		})
	}
	return series, nil
}

// pace enforces the fixed inter-call delay between fetches.
func (c *Client) pace(ctx context.Context) error {
	if c.Sleep <= 0 || c.lastFetch.IsZero() {
		c.lastFetch = time.Now()
		return nil
	}

	wait := c.Sleep - time.Since(c.lastFetch)
	if wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.lastFetch = time.Now()
	return nil
}

func clampInterest(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Yearly collapses a weekly series to mean interest per calendar year,
// sorted by year ascending.
func Yearly(series domain.TrendSeries) []domain.YearlyInterest {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, p := range series.Points {
		y := p.Date.UTC().Year()
		sums[y] += float64(p.Interest)
		counts[y]++
	}

	out := make([]domain.YearlyInterest, 0, len(sums))
	for y, sum := range sums {
		out = append(out, domain.YearlyInterest{Year: y, Interest: sum / float64(counts[y])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
