// Package export writes the long-form population table for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"schooldash/domain/school"
	"schooldash/internal/errors"
)

// Format names a download encoding
type Format string

const (
	FormatCSV   Format = "csv"
	FormatArrow Format = "arrow"
)

// Column headers shared by every format.
var populationColumns = []string{"school_name", "high_poverty", "race_ethnicity", "population"}

// ParseFormat resolves a format name such as "csv" or "arrow"
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatArrow:
		return FormatArrow, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown export format %q", s))
}

// ContentType returns the MIME type served for f
func (f Format) ContentType() string {
	if f == FormatArrow {
		return "application/vnd.apache.arrow.stream"
	}
	return "text/csv; charset=utf-8"
}

// Write encodes rows in the given format
func Write(w io.Writer, f Format, rows []school.PopulationRow) error {
	if f == FormatArrow {
		return WriteArrow(w, rows)
	}
	return WriteCSV(w, rows)
}

// WriteCSV writes rows with a header line. A null high_poverty is an empty cell.
func WriteCSV(w io.Writer, rows []school.PopulationRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(populationColumns); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	record := make([]string, len(populationColumns))
	for _, row := range rows {
		record[0] = row.SchoolName
		record[1] = ""
		if row.HighPoverty != nil {
			record[1] = strconv.FormatBool(*row.HighPoverty)
		}
		record[2] = string(row.RaceEthnicity)
		record[3] = strconv.Itoa(row.Population)
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "writing CSV row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "flushing CSV")
	}
	return nil
}
