package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"schooldash/domain/school"
	"schooldash/internal/errors"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []school.PopulationRow {
	yes, no := true, false
	return []school.PopulationRow{
		{SchoolName: "A", HighPoverty: &yes, RaceEthnicity: school.AfricanAmerican, Population: 10},
		{SchoolName: "B", HighPoverty: &no, RaceEthnicity: school.AfricanAmerican, Population: 5},
		{SchoolName: "C, Elementary", RaceEthnicity: school.White, Population: 300},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"school_name", "high_poverty", "race_ethnicity", "population"}, records[0])
	assert.Equal(t, []string{"A", "true", "African American", "10"}, records[1])
	assert.Equal(t, []string{"B", "false", "African American", "5"}, records[2])
	assert.Equal(t, []string{"C, Elementary", "", "White", "300"}, records[3])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "school_name,high_poverty,race_ethnicity,population\n", buf.String())
}

func TestWriteArrow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteArrow(&buf, sampleRows()))

	reader, err := ipc.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer reader.Release()

	assert.True(t, reader.Schema().Equal(PopulationSchema()))
	require.True(t, reader.Next())
	rec := reader.Record()
	require.EqualValues(t, 3, rec.NumRows())

	names := rec.Column(0).(*array.String)
	poverty := rec.Column(1).(*array.Boolean)
	categories := rec.Column(2).(*array.String)
	population := rec.Column(3).(*array.Int64)

	assert.Equal(t, "A", names.Value(0))
	assert.True(t, poverty.Value(0))
	assert.False(t, poverty.Value(1))
	assert.True(t, poverty.IsNull(2))
	assert.Equal(t, "White", categories.Value(2))
	assert.Equal(t, int64(300), population.Value(2))

	assert.False(t, reader.Next())
	assert.NoError(t, reader.Err())
}

func TestWriteArrow_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteArrow(&buf, nil))

	reader, err := ipc.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer reader.Release()
	assert.Len(t, reader.Schema().Fields(), 4)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("arrow")
	require.NoError(t, err)
	assert.Equal(t, FormatArrow, f)
	assert.Equal(t, "application/vnd.apache.arrow.stream", f.ContentType())

	_, err = ParseFormat("parquet")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
