package pipeline

import (
	"fmt"

	"schooldash/domain/core"
	"schooldash/domain/dataset"
	"schooldash/domain/school"
	"schooldash/internal/errors"
)

// Widgets is the sidebar state implied by a run: what each control offers and
// what it currently holds.
type Widgets struct {
	Visualizations []school.Visualization `json:"visualizations"`
	Visualization  school.Visualization   `json:"visualization"`
	// SizeBounds are the slider limits, [min(tot), max(tot)] of the joined table.
	SizeBounds school.SizeRange `json:"size_bounds"`
	HasBounds  bool             `json:"has_bounds"`
	Size       school.SizeRange `json:"size"`
	// Options are computed after the size filter.
	Options  []string `json:"options"`
	Selected []string `json:"selected"`
}

// Result is everything one run produces. Treat it as read-only: the controller
// shares a Result between callers.
type Result struct {
	RunID       core.RunID      `json:"run_id"`
	Checksum    core.Hash       `json:"checksum"`
	GeneratedAt core.Timestamp  `json:"generated_at"`
	Controls    school.Controls `json:"controls"`
	Widgets     Widgets         `json:"widgets"`
	// Warnings describe input oddities that did not abort the run.
	Warnings []string `json:"warnings,omitempty"`

	// Joined holds the rows that survived both filters.
	Joined     []school.JoinedRecord  `json:"joined"`
	Population []school.PopulationRow `json:"population"`
	Summary    []school.CategoryTotal `json:"summary"`
}

// Empty reports whether no school survived the filters
func (r *Result) Empty() bool {
	return len(r.Joined) == 0
}

// Run evaluates the whole pipeline for one set of control values:
// clean, join, size filter, selection, melt, summarize.
func Run(raw dataset.RawTables, controls school.Controls) (*Result, error) {
	if controls.Visualization == "" {
		controls.Visualization = school.VizGeneralPopulation
	}

	schools, err := CleanSchools(raw.Schools)
	if err != nil {
		return nil, errors.Wrap(err, "cleaning school table")
	}
	frpl, err := CleanFrpl(raw.Frpl)
	if err != nil {
		return nil, errors.Wrap(err, "cleaning FRPL table")
	}

	var warnings []string
	for _, name := range DuplicateFrplNames(frpl) {
		warnings = append(warnings, fmt.Sprintf("FRPL table repeats %q; the first row is used", name))
	}

	joined := Join(schools, frpl)

	bounds, hasBounds := SizeBounds(joined)
	size := bounds
	if controls.Size != nil {
		size = *controls.Size
	}
	sized := FilterBySize(joined, size)
	if !hasBounds {
		sized = nil
	}

	options := SchoolOptions(sized)
	selected := options
	if controls.SchoolsSet {
		selected = intersectInOrder(options, controls.Schools)
	}
	filtered := FilterBySelection(sized, selected)

	population := Melt(filtered)

	return &Result{
		Controls: controls,
		Warnings: warnings,
		Widgets: Widgets{
			Visualizations: school.Visualizations,
			Visualization:  controls.Visualization,
			SizeBounds:     bounds,
			HasBounds:      hasBounds,
			Size:           size,
			Options:        options,
			Selected:       selected,
		},
		Joined:     filtered,
		Population: population,
		Summary:    Summarize(population),
	}, nil
}

// intersectInOrder keeps the options that appear in wanted, in option order
func intersectInOrder(options, wanted []string) []string {
	set := make(map[string]struct{}, len(wanted))
	for _, w := range wanted {
		set[w] = struct{}{}
	}
	out := make([]string, 0, len(wanted))
	for _, o := range options {
		if _, ok := set[o]; ok {
			out = append(out, o)
		}
	}
	return out
}
