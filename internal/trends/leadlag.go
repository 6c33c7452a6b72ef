package trends

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"course-trends/internal/domain"
)

// A regression over fewer points than this says nothing.
const minLeadLagPoints = 10

// LeadLag is an ordinary least squares fit of year-over-year share change
// against the previous year's search interest.
type LeadLag struct {
	Alpha float64 // intercept
	Beta  float64 // slope
	R2    float64

	// Paired observations, sorted by X for plotting.
	X []float64 // interest in year t-1
	Y []float64 // share(t) - share(t-1)
}

// Fitted evaluates the regression line at each X.
func (f LeadLag) Fitted() []float64 {
	out := make([]float64, len(f.X))
	for i, x := range f.X {
		out[i] = f.Alpha + f.Beta*x
	}
	return out
}

// FitLeadLag joins one platform's share deltas with lagged yearly interest
// and fits delta-share ~ interest(t-1). Returns false when fewer than
// minLeadLagPoints observations line up.
func FitLeadLag(shares []domain.TopicYearShare, yearly []domain.YearlyInterest, platform domain.Platform) (LeadLag, bool) {
	interestByYear := make(map[int]float64, len(yearly))
	for _, y := range yearly {
		interestByYear[y.Year] = y.Interest
	}

	// share history per topic, year ascending
	byTopic := make(map[string][]domain.TopicYearShare)
	for _, s := range shares {
		if s.Platform == platform {
			byTopic[s.Topic] = append(byTopic[s.Topic], s)
		}
	}

	type obs struct{ x, y float64 }
	var pairs []obs
	for _, history := range byTopic {
		sort.Slice(history, func(i, j int) bool { return history[i].Year < history[j].Year })
		for i := 1; i < len(history); i++ {
			if history[i].Year != history[i-1].Year+1 {
				continue
			}
			lagged, ok := interestByYear[history[i].Year-1]
			if !ok {
				continue
			}
			pairs = append(pairs, obs{x: lagged, y: history[i].Share - history[i-1].Share})
		}
	}

	if len(pairs) < minLeadLagPoints {
		return LeadLag{}, false
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].x < pairs[j].x })

	fit := LeadLag{
		X: make([]float64, len(pairs)),
		Y: make([]float64, len(pairs)),
	}
	for i, p := range pairs {
		fit.X[i] = p.x
		fit.Y[i] = p.y
	}

	fit.Alpha, fit.Beta = stat.LinearRegression(fit.X, fit.Y, nil, false)
	fit.R2 = stat.RSquared(fit.X, fit.Y, nil, fit.Alpha, fit.Beta)
	return fit, true
}
