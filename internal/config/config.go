package config

import (
	"os"
	"strconv"
	"strings"

	"schooldash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Server   ServerConfig
	Logging  LoggingConfig
	Pipeline PipelineConfig
}

// DataConfig points at the two raw input tables
type DataConfig struct {
	SchoolFile string
	FrplFile   string
	SheetName  string // only used for .xlsx inputs
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	APIPort string
	GinMode string
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// PipelineConfig holds pipeline evaluation settings
type PipelineConfig struct {
	MemoEntries   int
	HistogramBins int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:     *loadDataConfig(),
		Server:   *loadServerConfig(),
		Logging:  *loadLoggingConfig(),
		Pipeline: *loadPipelineConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		SchoolFile: getEnvOrDefault("SCHOOL_DATA_FILE", "UpdatedSchoolData/schoolData.csv"),
		FrplFile:   getEnvOrDefault("FRPL_DATA_FILE", "UpdatedSchoolData/frpl.csv"),
		SheetName:  getEnvOrDefault("DATA_SHEET", "Sheet1"),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		APIPort: getEnvOrDefault("API_PORT", "8081"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:  strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
	}
}

func loadPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		MemoEntries:   getEnvIntOrDefault("MEMO_ENTRIES", 32),
		HistogramBins: getEnvIntOrDefault("HISTOGRAM_BINS", 20),
	}
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Data.SchoolFile) == "" {
		return errors.ConfigInvalid("school data file is required")
	}
	if strings.TrimSpace(config.Data.FrplFile) == "" {
		return errors.ConfigInvalid("FRPL data file is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if _, err := strconv.Atoi(config.Server.APIPort); err != nil {
		return errors.ConfigInvalid("API_PORT must be numeric")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	switch config.Logging.Format {
	case "json", "console":
	default:
		return errors.ConfigInvalid("LOG_FORMAT must be json or console")
	}
	if config.Pipeline.MemoEntries < 0 {
		return errors.ConfigInvalid("MEMO_ENTRIES cannot be negative")
	}
	if config.Pipeline.HistogramBins < 1 {
		return errors.ConfigInvalid("HISTOGRAM_BINS must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
