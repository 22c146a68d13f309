package ui

import (
	"schooldash/domain/school"
	"schooldash/internal/pipeline"
)

// Chart kinds understood by the dashboard script.
const (
	ChartPie       = "pie"
	ChartBar       = "bar"
	ChartHistogram = "histogram"
)

// Chart is one plot ready for the browser. Empty charts render a placeholder.
type Chart struct {
	ID        string                  `json:"id"`
	Kind      string                  `json:"kind"`
	Title     string                  `json:"title"`
	Facet     string                  `json:"facet,omitempty"`
	Labels    []string                `json:"labels,omitempty"`
	Values    []float64               `json:"values,omitempty"`
	Histogram *pipeline.HistogramView `json:"histogram,omitempty"`
	Empty     bool                    `json:"empty"`
}

// Dashboard is the full view model for one interaction
type Dashboard struct {
	RunID       string                 `json:"run_id"`
	Checksum    string                 `json:"checksum"`
	GeneratedAt string                 `json:"generated_at,omitempty"`
	Widgets     pipeline.Widgets       `json:"widgets"`
	Warnings    []string               `json:"warnings,omitempty"`
	Empty       bool                   `json:"empty"`
	Schools     int                    `json:"schools"`
	Charts      []Chart                `json:"charts"`
	Summary     []school.CategoryTotal `json:"summary"`
}

func newDashboard(res *pipeline.Result, bins int) *Dashboard {
	dash := &Dashboard{
		RunID:    res.RunID.String(),
		Checksum: res.Checksum.Short(),
		Widgets:  res.Widgets,
		Warnings: res.Warnings,
		Empty:    res.Empty(),
		Schools:  len(res.Joined),
		Charts:   buildCharts(res, bins),
		Summary:  res.Summary,
	}
	if !res.GeneratedAt.IsZero() {
		dash.GeneratedAt = res.GeneratedAt.String()
	}
	return dash
}

// buildCharts lays out the plots of the selected visualization
func buildCharts(res *pipeline.Result, bins int) []Chart {
	switch res.Widgets.Visualization {
	case school.VizPovertyShare:
		return []Chart{povertyPie(res.Joined)}
	case school.VizRaceAndPoverty:
		return facetedPies(res.Population)
	case school.VizHistograms:
		return histogramCharts(res.Joined, bins)
	default:
		return []Chart{
			summaryChart("population-pie", ChartPie, "Population Percentage per Race", res.Summary),
			summaryChart("population-bar", ChartBar, "Population per Race", res.Summary),
		}
	}
}

func summaryChart(id, kind, title string, totals []school.CategoryTotal) Chart {
	chart := Chart{ID: id, Kind: kind, Title: title, Empty: len(totals) == 0}
	for _, t := range totals {
		chart.Labels = append(chart.Labels, string(t.RaceEthnicity))
		chart.Values = append(chart.Values, float64(t.Population))
	}
	return chart
}

func povertyPie(rows []school.JoinedRecord) Chart {
	share := pipeline.PovertyShare(rows)
	chart := Chart{ID: "poverty-pie", Kind: ChartPie, Title: "High Poverty Schools", Empty: len(share) == 0}
	for _, c := range share {
		chart.Labels = append(chart.Labels, c.Label)
		chart.Values = append(chart.Values, float64(c.Schools))
	}
	return chart
}

// facetedPies draws one category pie per high_poverty value, like a facet_col split
func facetedPies(rows []school.PopulationRow) []Chart {
	const title = "Populations Percentage per Race"
	groups := pipeline.PopulationByPoverty(rows)

	var charts []Chart
	for _, label := range []string{"false", "true", "unknown"} {
		group, ok := groups[label]
		if !ok {
			continue
		}
		chart := summaryChart("race-poverty-"+label, ChartPie, title, pipeline.Summarize(group))
		chart.Facet = "high_poverty=" + label
		charts = append(charts, chart)
	}
	if len(charts) == 0 {
		charts = append(charts, Chart{ID: "race-poverty-empty", Kind: ChartPie, Title: title, Empty: true})
	}
	return charts
}

func histogramCharts(rows []school.JoinedRecord, bins int) []Chart {
	views := pipeline.Histograms(rows, bins)
	charts := make([]Chart, 0, len(views))
	for i := range views {
		view := views[i]
		charts = append(charts, Chart{
			ID:        "histogram-" + view.Column,
			Kind:      ChartHistogram,
			Title:     view.Title,
			Histogram: &view,
			Empty:     view.Empty(),
		})
	}
	return charts
}
