// Package config loads airsync configuration from environment variables,
// .env files, and an optional config file, in that order of precedence.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/campgroundfyi/airsync/pkg/constants"
	"github.com/campgroundfyi/airsync/pkg/errors"
)

// Config holds everything a reconciliation run needs to reach the remote
// store.
type Config struct {
	// Remote store credentials and addressing
	APIKey string
	BaseID string

	// Tables
	Table           string
	EventsTable     string
	EventLabelField string

	// Field names always treated as linked-record arrays, in addition to
	// whatever dynamic detection finds
	LinkedFields []string

	// ChunkSize caps the number of operations per remote call
	ChunkSize int

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// Load reads configuration from all sources:
//  1. Environment variables
//  2. .env files in the working directory
//  3. Defaults
func Load() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	cfg := &Config{
		APIKey:          getString("AIRTABLE_API_KEY", ""),
		BaseID:          getString("AIRTABLE_BASE_ID", ""),
		Table:           getString("AIRTABLE_TABLE_NAME", constants.DefaultTable),
		EventsTable:     getString("AIRTABLE_EVENTS_TABLE", constants.DefaultEventsTable),
		EventLabelField: getString("AIRTABLE_EVENT_LABEL_FIELD", constants.DefaultEventLabelField),
		ChunkSize:       constants.DefaultChunkSize,
		LogLevel:        getString("LOG_LEVEL", "info"),
		LogFormat:       getString("LOG_FORMAT", "auto"),
	}

	if fields := getString("AIRTABLE_LINKED_FIELDS", "Events"); fields != "" {
		for _, f := range strings.Split(fields, ",") {
			if trimmed := strings.TrimSpace(f); trimmed != "" {
				cfg.LinkedFields = append(cfg.LinkedFields, trimmed)
			}
		}
	}

	if n := viper.GetInt("AIRSYNC_CHUNK_SIZE"); n > 0 {
		cfg.ChunkSize = n
	}

	return cfg, nil
}

// Validate checks that required credentials are present. Every remote
// operation short-circuits on a validation failure without attempting any
// call.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.NewConfigError("airtable",
			"AIRTABLE_API_KEY not set - please configure your API key",
			errors.ErrAPIKeyRequired)
	}
	if c.BaseID == "" {
		return errors.NewConfigError("airtable",
			"AIRTABLE_BASE_ID not set - please configure your base ID", nil)
	}
	return nil
}

// loadEnvFiles loads .env files if present. Missing files are fine.
func loadEnvFiles() {
	for _, file := range []string{".env", ".env.local"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

// getString checks both OS environment variables and Viper configuration.
func getString(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
