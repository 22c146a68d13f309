package pipeline

import (
	"math"
	"sort"

	"schooldash/domain/school"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// HistogramGroup is one overlaid series: the schools sharing a high_poverty value
type HistogramGroup struct {
	Label  string    `json:"label"`
	Counts []float64 `json:"counts"`
	Rug    []float64 `json:"rug"` // sorted raw values, drawn as the marginal rug
	Mean   float64   `json:"mean"`
	Median float64   `json:"median"`
}

// HistogramView is the distribution of one race percentage column
type HistogramView struct {
	Category school.RaceCategory `json:"category"`
	Title    string              `json:"title"`
	Column   string              `json:"column"`
	Dividers []float64           `json:"dividers"`
	Groups   []HistogramGroup    `json:"groups"`
}

// Empty reports whether no school contributed a value
func (h HistogramView) Empty() bool {
	return len(h.Groups) == 0
}

var histogramPanels = []struct {
	category school.RaceCategory
	title    string
}{
	{school.AfricanAmerican, "African American"},
	{school.NativeAmerican, "Native American"},
	{school.AsianAmerican, "Asian American"},
	{school.HispanicAmerican, "Hispanic"},
	{school.White, "White"},
}

// Histograms builds the five percentage distributions colored by high_poverty.
// All groups in a panel share dividers so the bars overlay.
func Histograms(rows []school.JoinedRecord, bins int) []HistogramView {
	if bins < 1 {
		bins = 1
	}

	views := make([]HistogramView, 0, len(histogramPanels))
	for _, panel := range histogramPanels {
		view := HistogramView{
			Category: panel.category,
			Title:    panel.title,
			Column:   panel.category.PercentColumn(),
		}
		if len(rows) == 0 {
			views = append(views, view)
			continue
		}

		byLabel := make(map[string][]float64)
		all := make([]float64, 0, len(rows))
		for _, row := range rows {
			v := row.Percent(panel.category)
			label := school.PovertyLabel(row.HighPoverty)
			byLabel[label] = append(byLabel[label], v)
			all = append(all, v)
		}

		view.Dividers = dividers(all, bins)
		for _, label := range []string{"false", "true", "unknown"} {
			values, ok := byLabel[label]
			if !ok {
				continue
			}
			view.Groups = append(view.Groups, histogramGroup(label, values, view.Dividers))
		}
		views = append(views, view)
	}
	return views
}

// dividers spans [min, max] in bins equal steps; the top edge is nudged up so
// the maximum value lands inside the last bin.
func dividers(values []float64, bins int) []float64 {
	lo, hi := floats.Min(values), floats.Max(values)
	if hi <= lo {
		hi = lo + 1
	}
	hi = math.Nextafter(hi, math.Inf(1))
	divs := floats.Span(make([]float64, bins+1), lo, hi)
	// Span computes lo+step*i, which can round the top edge below hi.
	divs[bins] = hi
	return divs
}

func histogramGroup(label string, values, divs []float64) HistogramGroup {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	group := HistogramGroup{
		Label:  label,
		Counts: stat.Histogram(nil, divs, sorted, nil),
		Rug:    sorted,
	}
	// Both only fail on empty input, which callers never pass.
	group.Mean, _ = stats.Mean(sorted)
	group.Median, _ = stats.Median(sorted)
	return group
}
