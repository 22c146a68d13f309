package pipeline

import (
	"schooldash/domain/school"
)

// Join left-joins schools with FRPL rows on exact cleaned name and derives
// high_poverty. Every school yields exactly one row; when the FRPL table repeats
// a name the first occurrence wins.
func Join(schools []school.SchoolRecord, frpl []school.FrplRecord) []school.JoinedRecord {
	byName := make(map[string]school.FrplRecord, len(frpl))
	for _, f := range frpl {
		if _, exists := byName[f.Name]; !exists {
			byName[f.Name] = f
		}
	}

	joined := make([]school.JoinedRecord, 0, len(schools))
	for _, s := range schools {
		rec := school.JoinedRecord{SchoolRecord: s}
		if f, ok := byName[s.Name]; ok && f.FrplPct != nil {
			pct := *f.FrplPct
			rec.FrplPct = &pct
		}
		rec.HighPoverty = school.ClassifyPoverty(rec.FrplPct)
		joined = append(joined, rec)
	}
	return joined
}

// DuplicateFrplNames lists names that appear more than once in the FRPL table
func DuplicateFrplNames(frpl []school.FrplRecord) []string {
	counts := make(map[string]int, len(frpl))
	var dups []string
	for _, f := range frpl {
		counts[f.Name]++
		if counts[f.Name] == 2 {
			dups = append(dups, f.Name)
		}
	}
	return dups
}
