// Package load reads the raw catalog CSVs into canonical course records.
package load

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"course-trends/internal/domain"
)

// ErrMissingInput marks a required input file that is absent. Runs abort on it.
var ErrMissingInput = errors.New("load: input file missing")

// Years outside this range are treated as bad parses, not data.
const (
	minYear = 2007
	maxYear = 2030
)

// Result is the outcome of loading one dataset: the usable records plus the
// number of rows that had to be skipped as malformed.
type Result struct {
	Records []domain.CourseRecord
	Skipped int
}

// UdemyCSV loads the Udemy catalog export. Expected columns (by header name):
// course_id, course_title, url, is_paid, price, num_subscribers, num_reviews,
// num_lectures, level, content_duration, published_timestamp, subject.
// The record year comes from published_timestamp (RFC3339).
func UdemyCSV(path string) (Result, error) {
	rows, header, err := readAll(path)
	if err != nil {
		return Result{}, err
	}

	title := header.index("course_title")
	subject := header.index("subject")
	published := header.index("published_timestamp")
	subscribers := header.index("num_subscribers")
	if title < 0 || published < 0 {
		return Result{}, fmt.Errorf("load: %s: missing course_title/published_timestamp columns", path)
	}

	var res Result
	for _, row := range rows {
		// An empty title is data, not damage: the normalizer will file the
		// record under the unclassified sentinel. Only the timestamp is
		// required per row.
		if !covers(row, published) {
			res.Skipped++
			continue
		}

		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(row[published]))
		if err != nil {
			res.Skipped++
			continue
		}
		year := ts.UTC().Year()
		if year < minYear || year > maxYear {
			res.Skipped++
			continue
		}

		enrollment, ok := optionalInt(row, subscribers)
		if !ok {
			res.Skipped++
			continue
		}

		res.Records = append(res.Records, domain.CourseRecord{
			Platform:    domain.PlatformUdemy,
			RawTitle:    field(row, title),
			RawCategory: field(row, subject),
			Year:        year,
			Enrollment:  enrollment,
		})
	}
	return res, nil
}

// CourseraCSV loads the Coursera snapshot. Column names vary between dataset
// versions, so title and category are resolved through fallbacks
// (Course Name|Title, Subject|Category). The snapshot has no per-row date:
// every record gets one representative year, the median of a Year column
// when present, otherwise snapshotYear.
func CourseraCSV(path string, snapshotYear int) (Result, error) {
	rows, header, err := readAll(path)
	if err != nil {
		return Result{}, err
	}

	title := header.first("Course Name", "Title", "course_title")
	category := header.first("Subject", "Category")
	yearCol := header.first("Year")
	ratingCol := header.first("Rating", "Course Rating")
	if title < 0 {
		return Result{}, fmt.Errorf("load: %s: no recognizable title column", path)
	}

	type parsed struct {
		title    string
		category string
		rating   float64
	}

	var (
		res   Result
		kept  []parsed
		years []int
	)
	for _, row := range rows {
		// Rows with an empty title stay in; they classify by category or
		// end up unclassified.
		rating, ok := optionalFloat(row, ratingCol)
		if !ok {
			res.Skipped++
			continue
		}

		if yearCol >= 0 && yearCol < len(row) {
			if y, err := strconv.Atoi(strings.TrimSpace(row[yearCol])); err == nil {
				years = append(years, y)
			}
		}

		kept = append(kept, parsed{
			title:    field(row, title),
			category: field(row, category),
			rating:   rating,
		})
	}

	year := snapshotYear
	if len(years) > 0 {
		year = median(years)
	}

	for _, p := range kept {
		res.Records = append(res.Records, domain.CourseRecord{
			Platform:    domain.PlatformCoursera,
			RawTitle:    p.title,
			RawCategory: p.category,
			Year:        year,
			Rating:      p.rating,
		})
	}
	return res, nil
}

/* -------- CSV plumbing -------- */

type headerIndex map[string]int

func (h headerIndex) index(name string) int {
	if i, ok := h[normalizeHeader(name)]; ok {
		return i
	}
	return -1
}

func (h headerIndex) first(names ...string) int {
	for _, n := range names {
		if i := h.index(n); i >= 0 {
			return i
		}
	}
	return -1
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func readAll(path string) ([][]string, headerIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return nil, nil, fmt.Errorf("load: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Row length is validated per field below, not by the reader.
	r.FieldsPerRecord = -1

	head, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("load: read header of %s: %w", path, err)
	}
	header := make(headerIndex, len(head))
	for i, name := range head {
		header[normalizeHeader(name)] = i
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Quoting errors affect a single row; keep going.
			continue
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

// covers reports whether the row is long enough for all required columns.
func covers(row []string, cols ...int) bool {
	for _, c := range cols {
		if c < 0 || c >= len(row) || strings.TrimSpace(row[c]) == "" {
			return false
		}
	}
	return true
}

func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// optionalInt parses an optional numeric column. Absent or empty is fine
// (zero); present but unparseable marks the row malformed.
func optionalInt(row []string, col int) (int, bool) {
	s := field(row, col)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func optionalFloat(row []string, col int) (float64, bool) {
	s := field(row, col)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// median averages the two middle values on an even count, truncating
// toward zero.
func median(vals []int) int {
	sorted := append([]int(nil), vals...)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
