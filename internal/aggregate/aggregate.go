// Package aggregate turns classified course records into per-year topic
// share tables.
package aggregate

import (
	"sort"

	"course-trends/internal/domain"
)

type groupKey struct {
	platform domain.Platform
	year     int
	topic    string
}

type totalKey struct {
	platform domain.Platform
	year     int
}

// Shares groups records by (topic, year, platform) and computes each topic's
// share of its (year, platform) total. Groups with zero records produce no
// rows. Output order is deterministic: platform, year, topic ascending.
func Shares(records []domain.Classified) []domain.TopicYearShare {
	counts := make(map[groupKey]int)
	totals := make(map[totalKey]int)
	for _, r := range records {
		counts[groupKey{r.Platform, r.Year, r.Topic}]++
		totals[totalKey{r.Platform, r.Year}]++
	}

	out := make([]domain.TopicYearShare, 0, len(counts))
	for k, n := range counts {
		total := totals[totalKey{k.platform, k.year}]
		out = append(out, domain.TopicYearShare{
			Topic:    k.topic,
			Year:     k.year,
			Platform: k.platform,
			Count:    n,
			Share:    float64(n) / float64(total),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Platform != out[j].Platform {
			return out[i].Platform < out[j].Platform
		}
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}

// ForPlatform filters share rows down to one platform, preserving order.
func ForPlatform(shares []domain.TopicYearShare, platform domain.Platform) []domain.TopicYearShare {
	var out []domain.TopicYearShare
	for _, s := range shares {
		if s.Platform == platform {
			out = append(out, s)
		}
	}
	return out
}

// ForTopic filters share rows down to one (platform, topic) pair, ordered
// by year ascending.
func ForTopic(shares []domain.TopicYearShare, platform domain.Platform, topic string) []domain.TopicYearShare {
	var out []domain.TopicYearShare
	for _, s := range shares {
		if s.Platform == platform && s.Topic == topic {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// TopN returns the n largest topics for one (platform, year) group, ranked
// by share descending with ties broken by topic name ascending.
func TopN(shares []domain.TopicYearShare, platform domain.Platform, year, n int) []domain.TopicYearShare {
	var group []domain.TopicYearShare
	for _, s := range shares {
		if s.Platform == platform && s.Year == year {
			group = append(group, s)
		}
	}

	sort.Slice(group, func(i, j int) bool {
		if group[i].Share != group[j].Share {
			return group[i].Share > group[j].Share
		}
		return group[i].Topic < group[j].Topic
	})

	if n > 0 && len(group) > n {
		group = group[:n]
	}
	return group
}

// LatestYear reports the most recent year present for a platform.
func LatestYear(shares []domain.TopicYearShare, platform domain.Platform) (int, bool) {
	year, found := 0, false
	for _, s := range shares {
		if s.Platform == platform && (!found || s.Year > year) {
			year, found = s.Year, true
		}
	}
	return year, found
}

// YearRange reports the span of years present for a platform.
func YearRange(shares []domain.TopicYearShare, platform domain.Platform) (min, max int, ok bool) {
	for _, s := range shares {
		if s.Platform != platform {
			continue
		}
		if !ok {
			min, max, ok = s.Year, s.Year, true
			continue
		}
		if s.Year < min {
			min = s.Year
		}
		if s.Year > max {
			max = s.Year
		}
	}
	return min, max, ok
}
