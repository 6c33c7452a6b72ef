// Package export serializes pipeline tables to CSV and JSON under the
// outputs directory. All writers are deterministic: identical inputs
// produce byte-identical files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"course-trends/internal/domain"
)

// Keep header order EXACT; downstream notebooks key on these names.
var (
	cleanHeader  = []string{"year", "topic", "platform"}
	shareHeader  = []string{"year", "topic", "platform", "count", "share"}
	trendsHeader = []string{"topic", "year", "interest"}
)

// TopicYearly is one topic's yearly interest table, ready for export.
type TopicYearly struct {
	Topic string
	Rows  []domain.YearlyInterest
}

// WriteCleanCSV writes the normalized record table.
func WriteCleanCSV(path string, records []domain.Classified) error {
	return writeCSVFile(path, func(cw *csv.Writer) error {
		if err := cw.Write(cleanHeader); err != nil {
			return err
		}
		for _, r := range records {
			row := []string{strconv.Itoa(r.Year), r.Topic, string(r.Platform)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteShareCSV writes an aggregated topic share table.
func WriteShareCSV(path string, shares []domain.TopicYearShare) error {
	return writeCSVFile(path, func(cw *csv.Writer) error {
		if err := cw.Write(shareHeader); err != nil {
			return err
		}
		for _, s := range shares {
			row := []string{
				strconv.Itoa(s.Year),
				s.Topic,
				string(s.Platform),
				strconv.Itoa(s.Count),
				floatToString(s.Share),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteTrendsCSV writes the yearly search-interest table, one row per
// (topic, year).
func WriteTrendsCSV(path string, tables []TopicYearly) error {
	return writeCSVFile(path, func(cw *csv.Writer) error {
		if err := cw.Write(trendsHeader); err != nil {
			return err
		}
		for _, t := range tables {
			for _, r := range t.Rows {
				row := []string{t.Topic, strconv.Itoa(r.Year), floatToString(r.Interest)}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteCSV streams rows through the given fill func into one file.
func writeCSVFile(path string, fill func(*csv.Writer) error) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	if err := fill(cw); err != nil {
		f.Close()
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("export: flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", path, err)
	}
	return nil
}

// WriteCSVTo writes a share table to an arbitrary writer. Used by tests and
// the terminal report.
func WriteCSVTo(w io.Writer, shares []domain.TopicYearShare) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(shareHeader); err != nil {
		return err
	}
	for _, s := range shares {
		row := []string{
			strconv.Itoa(s.Year),
			s.Topic,
			string(s.Platform),
			strconv.Itoa(s.Count),
			floatToString(s.Share),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func floatToString(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: create directory %q: %w", dir, err)
	}
	return nil
}
