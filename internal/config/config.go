package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	// Inputs
	DataDir              string
	UdemyCSV             string
	CourseraCSV          string
	CourseraSnapshotYear int

	// Outputs
	ResultsDir     string
	OutputCompress bool

	// Trends API
	TrendsBaseURL     string
	TrendsSleep       time.Duration
	TrendsMaxAttempts int

	// Logging
	LogLevel string

	// SFTP delivery
	SFTPHost string
	SFTPPort int
	SFTPUser string
	SFTPPass string
	SFTPDir  string
}

func Load() Config {
	return Config{
		DataDir:              getenv("DATA_DIR", "data"),
		UdemyCSV:             getenv("UDEMY_CSV", "udemy_online_education_courses_dataset.csv"),
		CourseraCSV:          getenv("COURSERA_CSV", "Coursera.csv"),
		CourseraSnapshotYear: getenvInt("COURSERA_SNAPSHOT_YEAR", 2025),

		ResultsDir:     getenv("RESULTS_DIR", "results"),
		OutputCompress: getenvBool("OUTPUT_COMPRESS", false),

		TrendsBaseURL:     getenv("TRENDS_BASE_URL", "https://trends.example.com/api"),
		TrendsSleep:       getenvSeconds("TRENDS_SLEEP", 1.0),
		TrendsMaxAttempts: getenvInt("TRENDS_MAX_ATTEMPTS", 5),

		LogLevel: getenv("LOG_LEVEL", "info"),

		SFTPHost: os.Getenv("SFTP_HOST"),
		SFTPPort: getenvInt("SFTP_PORT", 22),
		SFTPUser: os.Getenv("SFTP_USER"),
		SFTPPass: os.Getenv("SFTP_PASS"),
		SFTPDir:  getenv("SFTP_DIR", "/inbound"),
	}
}

// UdemyPath is the full path of the raw Udemy catalog CSV.
func (c Config) UdemyPath() string { return filepath.Join(c.DataDir, c.UdemyCSV) }

// CourseraPath is the full path of the raw Coursera snapshot CSV.
func (c Config) CourseraPath() string { return filepath.Join(c.DataDir, c.CourseraCSV) }

// OutputsDir holds the generated CSV tables.
func (c Config) OutputsDir() string { return filepath.Join(c.ResultsDir, "outputs") }

// FigsDir holds the generated chart images.
func (c Config) FigsDir() string { return filepath.Join(c.ResultsDir, "figs") }

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getenvSeconds reads a float number of seconds (e.g. "1.5").
func getenvSeconds(k string, def float64) time.Duration {
	secs := def
	if v := os.Getenv(k); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil && f >= 0 {
			secs = f
		}
	}
	return time.Duration(secs * float64(time.Second))
}
