package ui

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"schooldash/domain/school"
	"schooldash/internal/errors"
)

// Query parameters understood by the dashboard and the JSON API.
const (
	paramVisualization = "viz"
	paramSizeMin       = "size_min"
	paramSizeMax       = "size_max"
	paramSchool        = "school"
	paramSchoolsSet    = "schools_set"
	// paramSelectionSize is the "min,max" range the posted checkboxes were
	// offered under. When the size controls differ, the selection is stale.
	paramSelectionSize = "selection_size"
)

// parseControls reads widget values from a query string. Absent values keep
// their defaults: full size range, every school selected.
func parseControls(q url.Values) (school.Controls, error) {
	var controls school.Controls

	viz, err := school.ParseVisualization(q.Get(paramVisualization))
	if err != nil {
		return controls, errors.WithCode(errors.CodeInvalidInput, err)
	}
	controls.Visualization = viz

	lo, hasLo := q[paramSizeMin]
	hi, hasHi := q[paramSizeMax]
	switch {
	case hasLo && hasHi:
		lower, err := parseBound(paramSizeMin, lo[0])
		if err != nil {
			return controls, err
		}
		upper, err := parseBound(paramSizeMax, hi[0])
		if err != nil {
			return controls, err
		}
		controls.Size = &school.SizeRange{Min: lower, Max: upper}
	case hasLo || hasHi:
		return controls, errors.InvalidInput("size_min and size_max must be given together")
	}

	controls.Schools = append(controls.Schools, q[paramSchool]...)
	controls.SchoolsSet = len(controls.Schools) > 0 || isTruthy(q.Get(paramSchoolsSet))

	if offered, ok := q[paramSelectionSize]; ok && offered[0] != sizeKey(controls.Size) {
		// the size filter changed the options; start again from all of them
		controls.Schools = nil
		controls.SchoolsSet = false
	}

	return controls, nil
}

func sizeKey(size *school.SizeRange) string {
	if size == nil {
		return ""
	}
	return strconv.Itoa(size.Min) + "," + strconv.Itoa(size.Max)
}

func parseBound(param, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.InvalidInput(fmt.Sprintf("%s must be an integer, got %q", param, raw))
	}
	return n, nil
}

func isTruthy(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

// controlsQuery is the inverse of parseControls, used for export links
func controlsQuery(c school.Controls) url.Values {
	q := url.Values{}
	if c.Visualization != "" {
		q.Set(paramVisualization, string(c.Visualization))
	}
	if c.Size != nil {
		q.Set(paramSizeMin, strconv.Itoa(c.Size.Min))
		q.Set(paramSizeMax, strconv.Itoa(c.Size.Max))
	}
	if c.SchoolsSet {
		q.Set(paramSchoolsSet, "1")
		for _, name := range c.Schools {
			q.Add(paramSchool, name)
		}
	}
	return q
}
