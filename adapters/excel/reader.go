package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"schooldash/domain/core"
	"schooldash/domain/dataset"
	"schooldash/internal"
	"schooldash/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath  string
	fileType  string // "xlsx" or "csv"
	sheetName string
	logger    *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := FileTypeCSV
	if ext == ".xlsx" || ext == ".xlsm" {
		fileType = FileTypeXLSX
	}
	return &DataReader{
		filePath:  filePath,
		fileType:  fileType,
		sheetName: "Sheet1",
		logger:    internal.DefaultLogger.Named("reader"),
	}
}

// WithSheet selects the worksheet for xlsx inputs
func (r *DataReader) WithSheet(name string) *DataReader {
	if name != "" {
		r.sheetName = name
	}
	return r
}

// WithLogger replaces the reader's logger
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// FileType reports "csv" or "xlsx"
func (r *DataReader) FileType() string {
	return r.fileType
}

// ReadData reads data from Excel or CSV files into a raw table
func (r *DataReader) ReadData() (*dataset.Table, error) {
	r.logger.Debug("reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.SourceUnavailable(r.filePath, core.ErrSourceMissing)
		}
		return nil, errors.SourceUnavailable(r.filePath, err)
	}

	switch r.fileType {
	case FileTypeCSV:
		return r.readCSVData()
	case FileTypeXLSX:
		return r.readExcelData()
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", r.fileType))
	}
}

// readExcelData reads the configured sheet, or the first sheet when it is absent
func (r *DataReader) readExcelData() (*dataset.Table, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.SourceUnavailable(r.filePath, err)
	}
	defer f.Close()

	sheet := r.sheetName
	sheets := f.GetSheetList()
	if !containsString(sheets, sheet) {
		if len(sheets) == 0 {
			return nil, errors.SchemaMismatch(core.ErrSchemaDrift, "%s has no worksheets", r.filePath)
		}
		r.logger.Warn("sheet %q not found in %s, using %q", sheet, r.filePath, sheets[0])
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.SourceUnavailable(r.filePath, fmt.Errorf("read sheet %s: %w", sheet, err))
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows, nil)
}

// readCSVData reads CSV data into a raw table
func (r *DataReader) readCSVData() (*dataset.Table, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.SourceUnavailable(r.filePath, err)
	}
	defer file.Close()

	rows, lines, err := ReadCSV(file)
	if err != nil {
		return nil, errors.SourceUnavailable(r.filePath, err)
	}
	return r.processRows(rows, lines)
}

// ReadCSV parses delimited text, tolerating ragged rows. lines holds the
// source line each record starts on; the csv package drops empty lines.
func ReadCSV(in io.Reader) ([][]string, []int, error) {
	var (
		rows  [][]string
		lines []int
	)
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, lines, nil
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, record)
		lines = append(lines, line)
	}
}

// processRows converts raw string rows into a Table, skipping blank lines.
// lines gives each row's source line; nil means row k is on line k+1.
func (r *DataReader) processRows(rows [][]string, lines []int) (*dataset.Table, error) {
	if len(rows) == 0 {
		return nil, errors.SchemaMismatch(core.ErrSchemaDrift, "%s has no header row", r.filePath)
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		header = strings.TrimPrefix(header, "\ufeff")
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]dataset.Row, 0, len(rows)-1)
	dataLines := make([]int, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rowData := make(dataset.Row, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
		line := i + 2
		if lines != nil {
			line = lines[i+1]
		}
		dataLines = append(dataLines, line)
	}

	r.logger.Debug("%s processed (%d columns, %d rows)", r.filePath, len(headers), len(dataRows))

	return &dataset.Table{
		Name:    r.filePath,
		Headers: headers,
		Rows:    dataRows,
		Lines:   dataLines,
	}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
