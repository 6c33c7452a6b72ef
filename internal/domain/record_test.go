package domain

import (
	"testing"
	"time"
)

func TestCourseRecord(t *testing.T) {
	rec := CourseRecord{
		Platform:    PlatformUdemy,
		RawTitle:    "Intro to Machine Learning",
		RawCategory: "Data Science",
		Year:        2021,
		Enrollment:  1200,
	}

	if rec.Platform != PlatformUdemy {
		t.Errorf("Expected Platform to be 'udemy', got '%s'", rec.Platform)
	}

	if rec.Year != 2021 {
		t.Errorf("Expected Year to be 2021, got %d", rec.Year)
	}

	if rec.Rating != 0 {
		t.Errorf("Expected zero Rating for a source without ratings, got %f", rec.Rating)
	}
}

func TestTrendSeries(t *testing.T) {
	s := TrendSeries{
		Topic: "data-science",
		Query: "data science",
		Points: []TrendPoint{
			{Date: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), Interest: 63},
		},
	}

	if s.Topic != "data-science" {
		t.Errorf("Expected Topic to be 'data-science', got '%s'", s.Topic)
	}

	if len(s.Points) != 1 || s.Points[0].Interest != 63 {
		t.Errorf("Unexpected points: %+v", s.Points)
	}
}
