// Package school defines the typed records that flow through the dashboard pipeline.
package school

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"schooldash/domain/core"
)

// HighPovertyThreshold is the FRPL percentage above which a school is high poverty.
const HighPovertyThreshold = 75.0

// RaceCategory is the human-readable race/ethnicity label
type RaceCategory string

const (
	NativeAmerican   RaceCategory = "Native American"
	AfricanAmerican  RaceCategory = "African American"
	AsianAmerican    RaceCategory = "Asian American"
	HispanicAmerican RaceCategory = "Hispanic American"
	White            RaceCategory = "White"
)

// RaceCategories lists the categories in melt order (na, aa, as, hi, wh).
var RaceCategories = []RaceCategory{NativeAmerican, AfricanAmerican, AsianAmerican, HispanicAmerican, White}

var countColumns = map[string]RaceCategory{
	"na_num": NativeAmerican,
	"aa_num": AfricanAmerican,
	"as_num": AsianAmerican,
	"hi_num": HispanicAmerican,
	"wh_num": White,
}

// CountColumn returns the wide count column for the category
func (c RaceCategory) CountColumn() string {
	for col, cat := range countColumns {
		if cat == c {
			return col
		}
	}
	return ""
}

// PercentColumn returns the wide percentage column for the category
func (c RaceCategory) PercentColumn() string {
	col := c.CountColumn()
	if col == "" {
		return ""
	}
	return strings.TrimSuffix(col, "_num") + "_pct"
}

// SchoolRecord is one cleaned per-school total row
type SchoolRecord struct {
	Name  string `json:"school_name"`
	Total int    `json:"tot"`

	NANum int `json:"na_num"`
	AANum int `json:"aa_num"`
	ASNum int `json:"as_num"`
	HINum int `json:"hi_num"`
	WHNum int `json:"wh_num"`

	NAPct float64 `json:"na_pct"`
	AAPct float64 `json:"aa_pct"`
	ASPct float64 `json:"as_pct"`
	HIPct float64 `json:"hi_pct"`
	WHPct float64 `json:"wh_pct"`
}

// Count returns the enrolled head count for a category
func (r SchoolRecord) Count(c RaceCategory) int {
	switch c {
	case NativeAmerican:
		return r.NANum
	case AfricanAmerican:
		return r.AANum
	case AsianAmerican:
		return r.ASNum
	case HispanicAmerican:
		return r.HINum
	case White:
		return r.WHNum
	}
	return 0
}

// Percent returns the enrollment share (0-100) for a category
func (r SchoolRecord) Percent(c RaceCategory) float64 {
	switch c {
	case NativeAmerican:
		return r.NAPct
	case AfricanAmerican:
		return r.AAPct
	case AsianAmerican:
		return r.ASPct
	case HispanicAmerican:
		return r.HIPct
	case White:
		return r.WHPct
	}
	return 0
}

// FrplRecord is one cleaned free/reduced-price lunch row
type FrplRecord struct {
	Name    string   `json:"school_name"`
	FrplPct *float64 `json:"frpl_pct"`
}

// JoinedRecord is a school row left-joined with its FRPL row
type JoinedRecord struct {
	SchoolRecord
	FrplPct     *float64 `json:"frpl_pct"`
	HighPoverty *bool    `json:"high_poverty"`
}

// ClassifyPoverty applies the strict > 75 rule; nil in, nil out
func ClassifyPoverty(frplPct *float64) *bool {
	if frplPct == nil {
		return nil
	}
	high := *frplPct > HighPovertyThreshold
	return &high
}

// PovertyLabel renders a nullable flag the way the charts group it
func PovertyLabel(flag *bool) string {
	if flag == nil {
		return "unknown"
	}
	return strconv.FormatBool(*flag)
}

// PopulationRow is the long form of one (school, category) pair
type PopulationRow struct {
	SchoolName    string       `json:"school_name"`
	HighPoverty   *bool        `json:"high_poverty"`
	RaceEthnicity RaceCategory `json:"race_ethnicity"`
	Population    int          `json:"population"`
}

// CategoryTotal is the population summed over all surviving schools for a category
type CategoryTotal struct {
	RaceEthnicity RaceCategory `json:"race_ethnicity"`
	Population    int          `json:"population"`
}

// Visualization is the selected chart view
type Visualization string

const (
	VizGeneralPopulation Visualization = "General Population"
	VizPovertyShare      Visualization = "Percentage of Poverty"
	VizRaceAndPoverty    Visualization = "Race/Ethnicity and Poverty"
	VizHistograms        Visualization = "Histogram of Percentages"
)

// Visualizations lists the radio options in display order
var Visualizations = []Visualization{VizGeneralPopulation, VizPovertyShare, VizRaceAndPoverty, VizHistograms}

// ParseVisualization accepts an exact option label; empty means the first option
func ParseVisualization(s string) (Visualization, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return VizGeneralPopulation, nil
	}
	for _, v := range Visualizations {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownVisualization, s)
}

// SizeRange is an inclusive enrollment range
type SizeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports Min <= n <= Max; an inverted range contains nothing
func (r SizeRange) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Controls are the widget values that drive one pipeline run
type Controls struct {
	Visualization Visualization `json:"visualization"`
	// Size nil means the full observed enrollment range.
	Size *SizeRange `json:"size,omitempty"`
	// Schools applies only when SchoolsSet; otherwise every option is selected.
	Schools    []string `json:"schools,omitempty"`
	SchoolsSet bool     `json:"schools_set"`
}

// Key is a canonical encoding used for memoization; selection order does not matter
func (c Controls) Key() string {
	var b strings.Builder
	b.WriteString(string(c.Visualization))
	b.WriteString("|")
	if c.Size != nil {
		fmt.Fprintf(&b, "%d..%d", c.Size.Min, c.Size.Max)
	} else {
		b.WriteString("*")
	}
	b.WriteString("|")
	if !c.SchoolsSet {
		b.WriteString("*")
		return b.String()
	}
	names := append([]string(nil), c.Schools...)
	sort.Strings(names)
	for i, n := range names {
		if i > 0 && names[i-1] == n {
			continue
		}
		b.WriteString(strconv.Quote(n))
	}
	return b.String()
}
