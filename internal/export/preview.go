package export

import (
	"encoding/json"
	"fmt"
	"os"
)

type previewRow struct {
	Topic    string  `json:"topic"`
	Year     int     `json:"year"`
	Interest float64 `json:"interest"`
}

// WriteTrendsPreviewJSON writes the first n yearly-interest rows as indented
// JSON, a quick sanity artifact next to the full CSV.
func WriteTrendsPreviewJSON(path string, tables []TopicYearly, n int) error {
	rows := make([]previewRow, 0, n)
	for _, t := range tables {
		for _, r := range t.Rows {
			if len(rows) >= n {
				break
			}
			rows = append(rows, previewRow{Topic: t.Topic, Year: r.Year, Interest: r.Interest})
		}
		if len(rows) >= n {
			break
		}
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal preview: %w", err)
	}
	data = append(data, '\n')

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
