// Package config holds the settings of a colmatch run: the reference schema,
// the rename and reporting switches, and logging. Values come from built-in
// defaults, an optional YAML file, and COLMATCH_* environment variables, in
// that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/nao1215/colmatch/domain/model"
)

// DefaultColumns is the reference schema used when nothing else is configured.
var DefaultColumns = []string{
	"DAY",
	"NAME_OF_FILE",
	"ACTION_NAME",
	"ACTION_ID",
	"SOURCE",
	"CLICKS",
	"UNIQUE_CLICKS",
	"IMPRESSIONS",
	"ITEM",
	"VIEW_RATE",
	"COMPLETE_VIEW_RATE",
	"COST",
	"ORDERS",
	"FILE_RECEIVED",
	"CHANNEL",
}

// Config holds all run configuration.
type Config struct {
	// Columns is the ordered reference schema. Names must be canonical
	// (upper case, underscores instead of spaces).
	Columns []string `yaml:"columns" env:"COLMATCH_COLUMNS"`

	// ChangeColName enables the semantic rename rules after canonicalization (default: false)
	ChangeColName bool `yaml:"change_col_name" env:"COLMATCH_CHANGE_COL_NAME"`

	// ShowMatchCol prints the matched columns after reconciliation (default: true)
	ShowMatchCol bool `yaml:"show_match_col" env:"COLMATCH_SHOW_MATCH_COL"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `yaml:"level" env:"COLMATCH_LOG_LEVEL"`

	// Format is the log output format: text, json (default: text)
	Format string `yaml:"format" env:"COLMATCH_LOG_FORMAT"`
}

// Default returns the built-in configuration.
func Default() *Config {
	columns := make([]string, len(DefaultColumns))
	copy(columns, DefaultColumns)

	return &Config{
		Columns:       columns,
		ChangeColName: false,
		ShowMatchCol:  true,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Schema returns the reference schema built from Columns.
func (c *Config) Schema() (model.Schema, error) {
	return model.NewSchema(c.Columns)
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if _, err := c.Schema(); err != nil {
		errs = append(errs, fmt.Sprintf("COLMATCH_COLUMNS: %v", err))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("COLMATCH_LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("COLMATCH_LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String returns a one-line summary for logging.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Columns: %d, ChangeColName: %v, ShowMatchCol: %v, Logging: {Level: %q, Format: %q}}",
		len(c.Columns), c.ChangeColName, c.ShowMatchCol, c.Logging.Level, c.Logging.Format)
}
