// Package charts renders the pipeline figures as PNG files using gonum/plot.
// Every renderer silently skips when it has no data so that a degraded run
// still produces the tables it can.
package charts

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"course-trends/internal/domain"
	"course-trends/internal/export"
	"course-trends/internal/trends"
)

const (
	figWidth  = 10 * vg.Inch
	figHeight = 6 * vg.Inch
)

// ShareLines draws one line per topic, year on X and share on Y.
func ShareLines(path, title string, shares []domain.TopicYearShare, topics []string) error {
	if len(shares) == 0 || len(topics) == 0 {
		return nil
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Share of courses"

	drawn := 0
	for i, topic := range topics {
		pts := sharePoints(shares, topic)
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("charts: line for %s: %w", topic, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		p.Legend.Add(topic, line)
		drawn++
	}
	if drawn == 0 {
		return nil
	}
	p.Legend.Top = true

	return save(p, path)
}

// TopTopicsBar draws a bar per topic for the given rows. The caller is
// expected to pass a single year's rows, typically the latest.
func TopTopicsBar(path, title string, shares []domain.TopicYearShare) error {
	if len(shares) == 0 {
		return nil
	}

	values := make(plotter.Values, len(shares))
	names := make([]string, len(shares))
	for i, s := range shares {
		values[i] = s.Share
		names[i] = s.Topic
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Share of courses"

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return fmt.Errorf("charts: bar chart: %w", err)
	}
	bars.Color = plotutil.Color(2)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = -0.8

	return save(p, path)
}

// ShareHeatmap draws a topic-by-year grid of shares.
func ShareHeatmap(path, title string, shares []domain.TopicYearShare) error {
	grid := buildGrid(shares)
	if grid == nil {
		return nil
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Year"

	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	p.Add(hm)
	p.NominalY(grid.topics...)

	return save(p, path)
}

// InterestLines draws one yearly search-interest line per topic.
func InterestLines(path, title string, tables []export.TopicYearly) error {
	if len(tables) == 0 {
		return nil
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Search interest"

	drawn := 0
	for i, table := range tables {
		if len(table.Rows) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(table.Rows))
		for j, r := range table.Rows {
			pts[j].X = float64(r.Year)
			pts[j].Y = r.Interest
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("charts: line for %s: %w", table.Topic, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		p.Legend.Add(table.Topic, line)
		drawn++
	}
	if drawn == 0 {
		return nil
	}
	p.Legend.Top = true

	return save(p, path)
}

// RegressionScatter draws the lead-lag observations with the fitted line
// on top.
func RegressionScatter(path, topic string, fit trends.LeadLag) error {
	if len(fit.X) == 0 {
		return nil
	}

	pts := make(plotter.XYs, len(fit.X))
	for i := range fit.X {
		pts[i].X = fit.X[i]
		pts[i].Y = fit.Y[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("charts: scatter for %s: %w", topic, err)
	}
	scatter.Color = plotutil.Color(0)

	fitted := fit.Fitted()
	linePts := make(plotter.XYs, len(fit.X))
	for i := range fit.X {
		linePts[i].X = fit.X[i]
		linePts[i].Y = fitted[i]
	}
	line, err := plotter.NewLine(linePts)
	if err != nil {
		return fmt.Errorf("charts: fit line for %s: %w", topic, err)
	}
	line.Color = plotutil.Color(3)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: share change vs prior-year interest (R2=%.3f)", topic, fit.R2)
	p.X.Label.Text = "Search interest, previous year"
	p.Y.Label.Text = "Year-over-year share change"
	p.Add(scatter, line)
	p.Legend.Add("observed", scatter)
	p.Legend.Add("fitted", line)
	p.Legend.Top = true

	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(figWidth, figHeight, path); err != nil {
		return fmt.Errorf("charts: save %s: %w", path, err)
	}
	return nil
}

func sharePoints(shares []domain.TopicYearShare, topic string) plotter.XYs {
	var pts plotter.XYs
	for _, s := range shares {
		if s.Topic != topic {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(s.Year), Y: s.Share})
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	return pts
}

// shareGrid adapts a share table to the heatmap's grid interface.
// Columns are years, rows are topics.
type shareGrid struct {
	topics []string
	years  []int
	cells  map[string]map[int]float64
}

func buildGrid(shares []domain.TopicYearShare) *shareGrid {
	if len(shares) == 0 {
		return nil
	}

	topicSet := map[string]bool{}
	yearSet := map[int]bool{}
	cells := map[string]map[int]float64{}
	for _, s := range shares {
		topicSet[s.Topic] = true
		yearSet[s.Year] = true
		if cells[s.Topic] == nil {
			cells[s.Topic] = map[int]float64{}
		}
		cells[s.Topic][s.Year] = s.Share
	}

	g := &shareGrid{cells: cells}
	for topic := range topicSet {
		g.topics = append(g.topics, topic)
	}
	sort.Strings(g.topics)
	for year := range yearSet {
		g.years = append(g.years, year)
	}
	sort.Ints(g.years)
	return g
}

func (g *shareGrid) Dims() (c, r int) { return len(g.years), len(g.topics) }

func (g *shareGrid) Z(c, r int) float64 { return g.cells[g.topics[r]][g.years[c]] }

func (g *shareGrid) X(c int) float64 { return float64(g.years[c]) }

func (g *shareGrid) Y(r int) float64 { return float64(r) }
