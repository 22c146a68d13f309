package pipeline

import (
	"fmt"

	"schooldash/domain/dataset"
	"schooldash/domain/school"
)

var schoolHeader = []string{
	"school_group", "grade", "pi_pct", "blank_col", "school_name", "tot",
	"aa_num", "na_num", "as_num", "hi_num", "wh_num",
	"aa_pct", "na_pct", "as_pct", "hi_pct", "wh_pct",
}

// totalRow builds a per-school total row; counts are in melt order na, aa, as, hi, wh.
func totalRow(name string, tot int, counts ...int) dataset.Row {
	row := dataset.Row{
		"school_group": "",
		"grade":        "",
		"pi_pct":       "0%",
		"blank_col":    "",
		"school_name":  name,
		"tot":          fmt.Sprint(tot),
	}
	for i, cat := range school.RaceCategories {
		n := 0
		if i < len(counts) {
			n = counts[i]
		}
		row[cat.CountColumn()] = fmt.Sprint(n)
		pct := 0.0
		if tot > 0 {
			pct = float64(n) * 100 / float64(tot)
		}
		row[cat.PercentColumn()] = fmt.Sprintf("%g%%", pct)
	}
	return row
}

// gradeRow is a per-grade breakdown row that cleaning must discard
func gradeRow(name, grade string) dataset.Row {
	row := totalRow(name, 10, 1, 1, 1, 1, 1)
	row["school_group"] = name
	row["grade"] = grade
	return row
}

func schoolTable(rows ...dataset.Row) *dataset.Table {
	return &dataset.Table{Name: "schoolData.csv", Headers: schoolHeader, Rows: rows}
}

func frplTable(pairs ...string) *dataset.Table {
	t := &dataset.Table{Name: "frpl.csv", Headers: []string{"school_name", "frpl_pct"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		t.Rows = append(t.Rows, dataset.Row{"school_name": pairs[i], "frpl_pct": pairs[i+1]})
	}
	return t
}

// abTables is the two-school scenario: A small and poor, B large and not.
func abTables() dataset.RawTables {
	return dataset.RawTables{
		Schools: schoolTable(
			gradeRow("A", "K"),
			totalRow("A Total", 100, 1, 10, 2, 30, 57),
			gradeRow("B", "1"),
			totalRow("B Total", 900, 3, 5, 40, 200, 652),
			totalRow("Grand Total", 1000, 4, 15, 42, 230, 709),
		),
		Frpl: frplTable("A", "80%", "B", "50%"),
	}
}

func ptr[T any](v T) *T { return &v }
