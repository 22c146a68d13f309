package pipeline

import (
	"sort"

	"schooldash/domain/school"
)

// SizeBounds returns [min(tot), max(tot)], the slider limits. ok is false for no rows.
func SizeBounds(rows []school.JoinedRecord) (school.SizeRange, bool) {
	if len(rows) == 0 {
		return school.SizeRange{}, false
	}
	r := school.SizeRange{Min: rows[0].Total, Max: rows[0].Total}
	for _, row := range rows[1:] {
		if row.Total < r.Min {
			r.Min = row.Total
		}
		if row.Total > r.Max {
			r.Max = row.Total
		}
	}
	return r, true
}

// FilterBySize keeps rows whose enrollment lies in the inclusive range
func FilterBySize(rows []school.JoinedRecord, size school.SizeRange) []school.JoinedRecord {
	out := make([]school.JoinedRecord, 0, len(rows))
	for _, row := range rows {
		if size.Contains(row.Total) {
			out = append(out, row)
		}
	}
	return out
}

// SchoolOptions lists distinct names in order of appearance. Call it on
// size-filtered rows so excluded schools are never offered.
func SchoolOptions(rows []school.JoinedRecord) []string {
	seen := make(map[string]struct{}, len(rows))
	options := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.Name]; ok {
			continue
		}
		seen[row.Name] = struct{}{}
		options = append(options, row.Name)
	}
	return options
}

// FilterBySelection keeps rows whose name is in selected
func FilterBySelection(rows []school.JoinedRecord, selected []string) []school.JoinedRecord {
	set := make(map[string]struct{}, len(selected))
	for _, name := range selected {
		set[name] = struct{}{}
	}
	out := make([]school.JoinedRecord, 0, len(rows))
	for _, row := range rows {
		if _, ok := set[row.Name]; ok {
			out = append(out, row)
		}
	}
	return out
}

// Melt reshapes the five wide count columns into one row per (school, category),
// category-major like pandas.melt.
func Melt(rows []school.JoinedRecord) []school.PopulationRow {
	out := make([]school.PopulationRow, 0, len(rows)*len(school.RaceCategories))
	for _, cat := range school.RaceCategories {
		for _, row := range rows {
			out = append(out, school.PopulationRow{
				SchoolName:    row.Name,
				HighPoverty:   row.HighPoverty,
				RaceEthnicity: cat,
				Population:    row.Count(cat),
			})
		}
	}
	return out
}

// Summarize sums population per category, ordered by label as a group-by would
func Summarize(rows []school.PopulationRow) []school.CategoryTotal {
	sums := make(map[school.RaceCategory]int)
	for _, row := range rows {
		sums[row.RaceEthnicity] += row.Population
	}
	out := make([]school.CategoryTotal, 0, len(sums))
	for cat, total := range sums {
		out = append(out, school.CategoryTotal{RaceEthnicity: cat, Population: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RaceEthnicity < out[j].RaceEthnicity })
	return out
}

// PovertyCount is the number of schools sharing one high_poverty value
type PovertyCount struct {
	Label   string `json:"label"` // "true", "false" or "unknown"
	Schools int    `json:"schools"`
}

// PovertyShare counts schools per high_poverty value in false, true, unknown order,
// omitting values with no schools
func PovertyShare(rows []school.JoinedRecord) []PovertyCount {
	counts := map[string]int{}
	for _, row := range rows {
		counts[school.PovertyLabel(row.HighPoverty)]++
	}
	var out []PovertyCount
	for _, label := range []string{"false", "true", "unknown"} {
		if n := counts[label]; n > 0 {
			out = append(out, PovertyCount{Label: label, Schools: n})
		}
	}
	return out
}

// PopulationByPoverty splits the long table by high_poverty label for faceted views
func PopulationByPoverty(rows []school.PopulationRow) map[string][]school.PopulationRow {
	out := make(map[string][]school.PopulationRow)
	for _, row := range rows {
		label := school.PovertyLabel(row.HighPoverty)
		out[label] = append(out[label], row)
	}
	return out
}
