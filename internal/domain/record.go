package domain

import "time"

// Platform identifies which course catalog a record came from.
type Platform string

const (
	PlatformUdemy    Platform = "udemy"
	PlatformCoursera Platform = "coursera"
)

// TopicUnclassified is the sentinel topic assigned when no vocabulary rule
// matches a record.
const TopicUnclassified = "unclassified"

// CourseRecord is the canonical representation of one catalog row inside
// this pipeline. Loaders map their source shape into this model and nothing
// mutates it afterwards.
type CourseRecord struct {
	Platform    Platform
	RawTitle    string
	RawCategory string
	Year        int
	Rating      float64 // 0 when the source has no rating column
	Enrollment  int     // 0 when the source has no enrollment column
}

// Classified pairs a record's grouping fields with its canonical topic.
type Classified struct {
	Topic    string
	Year     int
	Platform Platform
}

// TopicYearShare is one aggregated row: the fraction of courses on a
// platform in a year that fall under a topic. For a fixed (year, platform)
// the shares across all topics sum to 1.
type TopicYearShare struct {
	Topic    string
	Year     int
	Platform Platform
	Count    int
	Share    float64
}

// TrendPoint is a single dated search-interest observation on a 0-100 scale.
type TrendPoint struct {
	Date     time.Time
	Interest int
}

// TrendSeries is the search-interest time series the trends API returns for
// one canonical topic. It joins to share tables on Topic only.
type TrendSeries struct {
	Topic  string
	Query  string
	Points []TrendPoint
}

// YearlyInterest is mean search interest over one calendar year.
type YearlyInterest struct {
	Year     int
	Interest float64
}
