package config

import (
	"os"
	"strconv"

	"cytostat/internal/errors"
)

// Config represents the complete application configuration. Every path is
// explicit; nothing falls back to ambient process state.
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Analysis AnalysisConfig
	Data     DataConfig
}

// DatabaseConfig holds SQLite store settings
type DatabaseConfig struct {
	Path string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// AnalysisConfig holds analytical defaults
type AnalysisConfig struct {
	Alpha float64
}

// DataConfig holds ingest settings
type DataConfig struct {
	CSVPath string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			Path: os.Getenv("CYTOSTAT_DB_PATH"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("CYTOSTAT_PORT", "8080"),
		},
		Analysis: AnalysisConfig{
			Alpha: getEnvFloatOrDefault("CYTOSTAT_ALPHA", 0.05),
		},
		Data: DataConfig{
			CSVPath: os.Getenv("CYTOSTAT_CSV_PATH"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Database.Path == "" {
		return errors.ConfigInvalid("CYTOSTAT_DB_PATH is required")
	}
	if config.Analysis.Alpha <= 0 || config.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("CYTOSTAT_ALPHA must be in (0, 1)")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
