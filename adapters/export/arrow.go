package export

import (
	"io"

	"schooldash/domain/school"
	"schooldash/internal/errors"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// PopulationSchema is the Arrow layout of the long-form table
func PopulationSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: populationColumns[0], Type: arrow.BinaryTypes.String},
		{Name: populationColumns[1], Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		{Name: populationColumns[2], Type: arrow.BinaryTypes.String},
		{Name: populationColumns[3], Type: arrow.PrimitiveTypes.Int64},
	}, nil)
}

// WriteArrow writes rows as a single record batch in the Arrow IPC stream format
func WriteArrow(w io.Writer, rows []school.PopulationRow) error {
	schema := PopulationSchema()

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	names := builder.Field(0).(*array.StringBuilder)
	poverty := builder.Field(1).(*array.BooleanBuilder)
	categories := builder.Field(2).(*array.StringBuilder)
	population := builder.Field(3).(*array.Int64Builder)

	builder.Reserve(len(rows))
	for _, row := range rows {
		names.Append(row.SchoolName)
		if row.HighPoverty != nil {
			poverty.Append(*row.HighPoverty)
		} else {
			poverty.AppendNull()
		}
		categories.Append(string(row.RaceEthnicity))
		population.Append(int64(row.Population))
	}

	record := builder.NewRecord()
	defer record.Release()

	writer := ipc.NewWriter(w, ipc.WithSchema(schema))
	if err := writer.Write(record); err != nil {
		writer.Close()
		return errors.Wrap(err, "writing arrow record")
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "closing arrow writer")
	}
	return nil
}
