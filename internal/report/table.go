package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"course-trends/internal/domain"
)

var tableHeader = []string{"TOPIC", "YEAR", "PLATFORM", "COUNT", "SHARE"}

// WriteTable renders a share table as aligned plain text. Column widths are
// computed with display widths so wide runes in topic names line up.
func WriteTable(w io.Writer, title string, shares []domain.TopicYearShare) error {
	rows := make([][]string, 0, len(shares)+1)
	rows = append(rows, tableHeader)
	for _, s := range shares {
		rows = append(rows, []string{
			s.Topic,
			strconv.Itoa(s.Year),
			string(s.Platform),
			strconv.Itoa(s.Count),
			fmt.Sprintf("%.4f", s.Share),
		})
	}

	widths := make([]int, len(tableHeader))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for i, row := range rows {
		if _, err := fmt.Fprintln(w, formatRow(row, widths)); err != nil {
			return err
		}
		if i == 0 {
			if _, err := fmt.Fprintln(w, separatorRow(widths)); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatRow(row []string, widths []int) string {
	var sb strings.Builder
	for i, cell := range row {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(cell)
		if pad := widths[i] - runewidth.StringWidth(cell); pad > 0 && i < len(row)-1 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
	}
	return sb.String()
}

func separatorRow(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	return strings.Join(parts, "  ")
}
