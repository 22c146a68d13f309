package container

import (
	"fmt"

	"schooldash/adapters/excel"
	"schooldash/internal"
	"schooldash/internal/config"
	"schooldash/internal/pipeline"
	"schooldash/ports"
	"schooldash/ui"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	Source     ports.TableSource
	Controller *pipeline.Controller
}

// New wires the file source and the pipeline controller from cfg
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	source := excel.NewFileSource(excel.SourceConfig{
		SchoolFile: cfg.Data.SchoolFile,
		FrplFile:   cfg.Data.FrplFile,
		SheetName:  cfg.Data.SheetName,
	}, logger)

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Source:     source,
		Controller: pipeline.NewController(source, cfg.Pipeline.MemoEntries, logger),
	}

	logger.Info("container ready: schools=%s frpl=%s memo=%d", cfg.Data.SchoolFile, cfg.Data.FrplFile, cfg.Pipeline.MemoEntries)
	return c, nil
}

// UIOptions derives the HTTP front-end options from the configuration
func (c *Container) UIOptions() ui.Options {
	return ui.Options{
		GinMode:       c.Config.Server.GinMode,
		HistogramBins: c.Config.Pipeline.HistogramBins,
		Logger:        c.Logger,
	}
}
