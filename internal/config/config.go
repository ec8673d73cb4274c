// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Data source
	DatabaseURL string `json:"database_url,omitempty"`

	// Generation
	Locale string `json:"locale,omitempty" validate:"omitempty,bcp47_language_tag"`
	Theme  string `json:"theme,omitempty" validate:"omitempty,oneof=modern classic compact"`

	// Output
	OutputDir      string `json:"output_dir,omitempty"`
	DebugFilenames bool   `json:"debug_filenames,omitempty"`

	// Timeouts in seconds
	DownloadTimeout int `json:"download_timeout,omitempty" validate:"omitempty,min=1,max=300"`
	PreviewTimeout  int `json:"preview_timeout,omitempty" validate:"omitempty,min=1,max=300"`

	// Behavior
	StrictValidation bool `json:"strict_validation,omitempty"` // advisory issues block delivery
	Verbose          bool `json:"verbose,omitempty"`
	Port             int  `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
}

var structValidator = validator.New()

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return fmt.Errorf("config error: field %s failed %s validation", first.Field(), first.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Locale == "" {
		result.Locale = defaults.Locale
	}
	if result.Theme == "" {
		result.Theme = defaults.Theme
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.DownloadTimeout == 0 {
		result.DownloadTimeout = defaults.DownloadTimeout
	}
	if result.PreviewTimeout == 0 {
		result.PreviewTimeout = defaults.PreviewTimeout
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
