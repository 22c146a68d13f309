// Package pipeline turns the two raw input tables into the joined, filtered and
// reshaped views the dashboard charts. Every function here is pure: same input,
// same output, no hidden state.
package pipeline

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"schooldash/domain/core"
	"schooldash/domain/dataset"
	"schooldash/domain/school"
	"schooldash/internal/errors"
)

// Column names as they appear in the raw inputs.
const (
	colSchoolGroup = "school_group"
	colSchoolName  = "school_name"
	colTotal       = "tot"
	colFrplPct     = "frpl_pct"

	// grandTotalName marks the synthetic district-wide row.
	grandTotalName = "Grand Total"
	// totalMarker is appended to school names on per-school total rows.
	totalMarker = "Total"
)

var schoolColumns = []string{
	colSchoolGroup, colSchoolName, colTotal,
	"aa_num", "na_num", "as_num", "hi_num", "wh_num",
	"aa_pct", "na_pct", "as_pct", "hi_pct", "wh_pct",
}

var frplColumns = []string{colSchoolName, colFrplPct}

// decimalNumber rejects the hex, underscore and Inf/NaN spellings ParseFloat allows.
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParsePercent converts "42.5%" to 42.5. Anything that is not a finite number
// followed by a single trailing '%' is rejected.
func ParsePercent(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasSuffix(s, "%") {
		return 0, errors.DataQuality(core.ErrMalformedPercent, "%q has no %% suffix", raw)
	}
	num := strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if !decimalNumber.MatchString(num) {
		return 0, errors.DataQuality(core.ErrMalformedPercent, "%q is not a number followed by %%", raw)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, errors.DataQuality(core.ErrMalformedPercent, "%q is not a number followed by %%", raw)
	}
	return v, nil
}

// parseCount accepts "500" and the float spelling "500.0" some exports produce
func parseCount(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, errors.DataQuality(core.ErrMalformedCount, "%q is not an integer", raw)
	}
	return int(f), nil
}

// NormalizeSchoolName strips the "Total" marker and surrounding whitespace.
// "Total" alone normalizes to "", which is kept but never joins.
func NormalizeSchoolName(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, totalMarker, ""))
}

// CleanSchools keeps per-school total rows, drops the grand total, normalizes
// names and converts counts and percentages. The first malformed cell aborts.
func CleanSchools(table *dataset.Table) ([]school.SchoolRecord, error) {
	if err := requireColumns(table, schoolColumns); err != nil {
		return nil, err
	}

	records := make([]school.SchoolRecord, 0, len(table.Rows))
	seen := make(map[string]int, len(table.Rows))

	for i, row := range table.Rows {
		line := table.Line(i)

		if _, grouped := row.Lookup(colSchoolGroup); grouped {
			continue
		}
		rawName, ok := row.Lookup(colSchoolName)
		if !ok {
			return nil, errors.DataQuality(core.ErrMissingName, "%s line %d", table.Name, line)
		}
		if rawName == grandTotalName {
			continue
		}

		rec := school.SchoolRecord{Name: NormalizeSchoolName(rawName)}
		if prev, dup := seen[rec.Name]; dup {
			return nil, errors.DataQuality(core.ErrDuplicateSchool, "%s line %d repeats %q from line %d", table.Name, line, rec.Name, prev)
		}
		seen[rec.Name] = line

		var err error
		if rec.Total, err = cellCount(table, row, line, colTotal); err != nil {
			return nil, err
		}
		counts := []*int{&rec.NANum, &rec.AANum, &rec.ASNum, &rec.HINum, &rec.WHNum}
		pcts := []*float64{&rec.NAPct, &rec.AAPct, &rec.ASPct, &rec.HIPct, &rec.WHPct}
		for k, cat := range school.RaceCategories {
			if *counts[k], err = cellCount(table, row, line, cat.CountColumn()); err != nil {
				return nil, err
			}
			if *pcts[k], err = cellPercent(table, row, line, cat.PercentColumn()); err != nil {
				return nil, err
			}
		}

		records = append(records, rec)
	}

	return records, nil
}

// CleanFrpl drops rows without a school name and converts frpl_pct.
// A null percentage stays null.
func CleanFrpl(table *dataset.Table) ([]school.FrplRecord, error) {
	if err := requireColumns(table, frplColumns); err != nil {
		return nil, err
	}

	records := make([]school.FrplRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		name, ok := row.Lookup(colSchoolName)
		if !ok {
			continue
		}
		rec := school.FrplRecord{Name: name}
		if raw, ok := row.Lookup(colFrplPct); ok {
			v, err := ParsePercent(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "%s line %d column %s", table.Name, table.Line(i), colFrplPct)
			}
			rec.FrplPct = &v
		}
		records = append(records, rec)
	}
	return records, nil
}

func requireColumns(table *dataset.Table, required []string) error {
	if table == nil {
		return errors.SchemaMismatch(core.ErrSchemaDrift, "table not loaded")
	}
	if missing := table.MissingColumns(required); len(missing) > 0 {
		return errors.SchemaMismatch(core.ErrSchemaDrift, "%s lacks columns %s", table.Name, strings.Join(missing, ", "))
	}
	return nil
}

func cellCount(table *dataset.Table, row dataset.Row, line int, col string) (int, error) {
	raw, ok := row.Lookup(col)
	if !ok {
		return 0, errors.DataQuality(core.ErrMalformedCount, "%s line %d column %s is empty", table.Name, line, col)
	}
	n, err := parseCount(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "%s line %d column %s", table.Name, line, col)
	}
	return n, nil
}

func cellPercent(table *dataset.Table, row dataset.Row, line int, col string) (float64, error) {
	raw, ok := row.Lookup(col)
	if !ok {
		return 0, errors.DataQuality(core.ErrMalformedPercent, "%s line %d column %s is empty", table.Name, line, col)
	}
	v, err := ParsePercent(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "%s line %d column %s", table.Name, line, col)
	}
	return v, nil
}
