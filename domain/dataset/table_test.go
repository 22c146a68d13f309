package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNull(t *testing.T) {
	for _, cell := range []string{"", "  ", "NA", "N/A", "NaN", "null", "None", "#N/A"} {
		assert.True(t, IsNull(cell), "%q should be null", cell)
	}
	for _, cell := range []string{"0", "Total", "none of the above", "42%"} {
		assert.False(t, IsNull(cell), "%q should not be null", cell)
	}
}

func TestMissingColumns(t *testing.T) {
	tbl := &Table{Headers: []string{"school_name", "frpl_pct"}}
	assert.Empty(t, tbl.MissingColumns([]string{"school_name", "frpl_pct"}))
	assert.Equal(t, []string{"tot", "aa_num"}, tbl.MissingColumns([]string{"tot", "school_name", "aa_num"}))
}

func TestChecksum(t *testing.T) {
	build := func(name string) RawTables {
		return RawTables{
			Schools: &Table{Headers: []string{"school_name", "tot"}, Rows: []Row{{"school_name": name, "tot": "10"}}},
			Frpl:    &Table{Headers: []string{"school_name", "frpl_pct"}},
		}
	}

	a, b := build("Lincoln"), build("Lincoln")
	assert.Equal(t, a.Checksum(), b.Checksum())
	assert.NotEqual(t, a.Checksum(), build("Lincol").Checksum())

	// Field boundaries matter.
	x := RawTables{Schools: &Table{Headers: []string{"a", "b"}, Rows: []Row{{"a": "ab", "b": "c"}}}}
	y := RawTables{Schools: &Table{Headers: []string{"a", "b"}, Rows: []Row{{"a": "a", "b": "bc"}}}}
	assert.NotEqual(t, x.Checksum(), y.Checksum())
}

func TestTableLine(t *testing.T) {
	tbl := &Table{Rows: []Row{{}, {}}}
	assert.Equal(t, 3, tbl.Line(1), "without source lines rows follow the header")

	tbl.Lines = []int{4, 9}
	assert.Equal(t, 9, tbl.Line(1))
}
