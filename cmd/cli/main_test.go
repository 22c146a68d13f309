package main

import (
	"bytes"
	"testing"

	"schooldash/domain/dataset"
	"schooldash/domain/school"
	"schooldash/internal/pipeline"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFlags(t *testing.T, args ...string) (school.Controls, error) {
	t.Helper()
	flags := &controlFlags{}
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return flags.controls(cmd)
}

func TestControlFlags(t *testing.T) {
	c, err := parseFlags(t)
	require.NoError(t, err)
	assert.Nil(t, c.Size)
	assert.False(t, c.SchoolsSet)

	c, err = parseFlags(t, "--size-min", "0", "--size-max", "500", "--school", "Adams", "--school", "Baker")
	require.NoError(t, err)
	assert.Equal(t, &school.SizeRange{Min: 0, Max: 500}, c.Size)
	assert.Equal(t, []string{"Adams", "Baker"}, c.Schools)
	assert.True(t, c.SchoolsSet)

	_, err = parseFlags(t, "--size-min", "10")
	assert.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	headers := []string{
		"school_group", "school_name", "tot",
		"aa_num", "na_num", "as_num", "hi_num", "wh_num",
		"aa_pct", "na_pct", "as_pct", "hi_pct", "wh_pct",
	}
	raw := dataset.RawTables{
		Schools: &dataset.Table{Name: "schools", Headers: headers, Rows: []dataset.Row{{
			"school_group": "", "school_name": "Adams Total", "tot": "100",
			"aa_num": "10", "na_num": "1", "as_num": "2", "hi_num": "30", "wh_num": "57",
			"aa_pct": "10%", "na_pct": "1%", "as_pct": "2%", "hi_pct": "30%", "wh_pct": "57%",
		}}},
		Frpl: &dataset.Table{Name: "frpl", Headers: []string{"school_name", "frpl_pct"}},
	}
	res, err := pipeline.Run(raw, school.Controls{})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printSummary(&out, res))
	assert.Contains(t, out.String(), "African American")
	assert.Contains(t, out.String(), "1 schools")

	empty, err := pipeline.Run(raw, school.Controls{SchoolsSet: true})
	require.NoError(t, err)
	out.Reset()
	require.NoError(t, printSummary(&out, empty))
	assert.Equal(t, "no schools match the filters\n", out.String())
}
