// Package dataset holds raw, untyped tables exactly as read from a source file.
package dataset

import (
	"strings"

	"schooldash/domain/core"
)

// Row is one data row keyed by header name
type Row map[string]string

// Table is a header row plus data rows, cells trimmed but otherwise untouched
type Table struct {
	Name    string   // source path or sheet, for error messages
	Headers []string // header order as read
	Rows    []Row
	// Lines holds each row's 1-based line in the source, parallel to Rows.
	// When nil, rows are taken to follow the header with no gaps.
	Lines []int
}

// Line returns the source line of row i for error messages
func (t *Table) Line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// naTokens mirrors the strings pandas.read_csv treats as missing by default.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsNull reports whether a raw cell counts as missing
func IsNull(cell string) bool {
	_, ok := naTokens[strings.TrimSpace(cell)]
	return ok
}

// HasColumn reports whether the header contains name
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the required columns absent from the header, in the order given
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, col := range required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// Lookup returns the cell for col and whether it is non-null
func (r Row) Lookup(col string) (string, bool) {
	v, ok := r[col]
	if !ok || IsNull(v) {
		return "", false
	}
	return v, true
}

// RawTables is the pair of inputs the pipeline consumes
type RawTables struct {
	Schools *Table
	Frpl    *Table
}

// Checksum fingerprints both tables' contents so identical inputs share memoized runs
func (rt RawTables) Checksum() core.Hash {
	h := core.NewHasher()
	for _, t := range []*Table{rt.Schools, rt.Frpl} {
		if t == nil {
			h.Field("<nil>")
			continue
		}
		h.Field(strings.Join(t.Headers, "\x1f"))
		for _, row := range t.Rows {
			for _, col := range t.Headers {
				h.Field(row[col])
			}
		}
		h.Field("\x1e")
	}
	return h.Sum()
}
