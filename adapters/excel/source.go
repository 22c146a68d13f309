package excel

import (
	"context"

	"schooldash/domain/dataset"
	"schooldash/internal"
	"schooldash/internal/errors"
)

// FileSource reads the school and FRPL tables from local CSV or XLSX files
type FileSource struct {
	config SourceConfig
	logger *internal.Logger
}

// NewFileSource creates a TableSource over the configured files
func NewFileSource(config SourceConfig, logger *internal.Logger) *FileSource {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &FileSource{config: config, logger: logger.Named("source")}
}

// Load re-reads both files; there is no caching at this layer
func (s *FileSource) Load(ctx context.Context) (dataset.RawTables, error) {
	if err := ctx.Err(); err != nil {
		return dataset.RawTables{}, err
	}

	schools, err := s.read(s.config.SchoolFile)
	if err != nil {
		return dataset.RawTables{}, errors.Wrap(err, "failed to load school table")
	}
	frpl, err := s.read(s.config.FrplFile)
	if err != nil {
		return dataset.RawTables{}, errors.Wrap(err, "failed to load FRPL table")
	}

	s.logger.Debug("loaded %d school rows, %d FRPL rows", len(schools.Rows), len(frpl.Rows))
	return dataset.RawTables{Schools: schools, Frpl: frpl}, nil
}

func (s *FileSource) read(path string) (*dataset.Table, error) {
	return NewDataReader(path).WithSheet(s.config.SheetName).WithLogger(s.logger).ReadData()
}
