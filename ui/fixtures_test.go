package ui

import (
	"context"

	"schooldash/domain/dataset"
	"schooldash/domain/school"
	"schooldash/internal"
	"schooldash/internal/pipeline"
)

// pipelineRunner evaluates the real pipeline over fixed tables
type pipelineRunner struct {
	raw dataset.RawTables
	err error
}

func (r *pipelineRunner) Run(ctx context.Context, controls school.Controls) (*pipeline.Result, error) {
	if r.err != nil {
		return nil, r.err
	}
	return pipeline.Run(r.raw, controls)
}

func schoolRow(name, tot, aa, na, as, hi, wh, aaPct, naPct, asPct, hiPct, whPct string) dataset.Row {
	return dataset.Row{
		"school_group": "", "grade": "", "pi_pct": "", "blank_col": "",
		"school_name": name, "tot": tot,
		"aa_num": aa, "na_num": na, "as_num": as, "hi_num": hi, "wh_num": wh,
		"aa_pct": aaPct, "na_pct": naPct, "as_pct": asPct, "hi_pct": hiPct, "wh_pct": whPct,
	}
}

func fixtureTables() dataset.RawTables {
	headers := []string{
		"school_group", "grade", "pi_pct", "blank_col", "school_name", "tot",
		"aa_num", "na_num", "as_num", "hi_num", "wh_num",
		"aa_pct", "na_pct", "as_pct", "hi_pct", "wh_pct",
	}
	return dataset.RawTables{
		Schools: &dataset.Table{Name: "schoolData.csv", Headers: headers, Rows: []dataset.Row{
			schoolRow("Adams Total", "100", "10", "1", "2", "30", "57", "10%", "1%", "2%", "30%", "57%"),
			schoolRow("Baker Total", "900", "5", "3", "40", "200", "652", "0.5%", "0.3%", "4.4%", "22.2%", "72.4%"),
			schoolRow("Grand Total", "1000", "15", "4", "42", "230", "709", "1.5%", "0.4%", "4.2%", "23%", "70.9%"),
		}},
		Frpl: &dataset.Table{Name: "frpl.csv", Headers: []string{"school_name", "frpl_pct"}, Rows: []dataset.Row{
			{"school_name": "Adams", "frpl_pct": "80%"},
			{"school_name": "Baker", "frpl_pct": "50%"},
		}},
	}
}

func testOptions() Options {
	return Options{GinMode: "test", HistogramBins: 10, Logger: internal.NewNopLogger()}
}
