//-------------------------------------------------------------------------
//
// Catalog Reporter
//
// Copyright (c) 2025 - 2026, RetailScope Labs
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for catalog-reporter.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for catalog-reporter.
type Config struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Init holds configuration for the init subcommand.
	Init InitConfig `mapstructure:"init"`

	// Clean holds configuration for the clean subcommand.
	Clean CleanConfig `mapstructure:"clean"`

	// Report holds configuration for the report subcommand.
	Report ReportConfig `mapstructure:"report"`
}

// InitConfig holds configuration for database initialization.
type InitConfig struct {
	// CSVPath is the path to a CSV file to load. When empty, synthetic
	// data is generated instead.
	CSVPath string `mapstructure:"csv_path"`

	// Rows is the number of synthetic rows to generate when no CSV
	// file is given.
	Rows int `mapstructure:"rows"`

	// Seed is the RNG seed for synthetic data (0 = time-based).
	Seed uint64 `mapstructure:"seed"`

	// DropExisting drops existing schema before initialization.
	DropExisting bool `mapstructure:"drop_existing"`
}

// CleanConfig holds configuration for the cleaning pass.
type CleanConfig struct {
	// SampleLimit is how many offending rows to show per audit finding.
	SampleLimit int `mapstructure:"sample_limit"`
}

// ReportConfig holds configuration for report execution.
type ReportConfig struct {
	// Parallel is the number of concurrent query workers.
	Parallel int `mapstructure:"parallel"`

	// MaxRows caps the number of rows printed per result set
	// (0 = unlimited).
	MaxRows int `mapstructure:"max_rows"`

	// AllowDirty permits running reports against a catalog whose prices
	// are still in minor units.
	AllowDirty bool `mapstructure:"allow_dirty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Init: InitConfig{
			Rows:         5000,
			DropExisting: false,
		},
		Clean: CleanConfig{
			SampleLimit: 10,
		},
		Report: ReportConfig{
			Parallel: 1,
			MaxRows:  50,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./catalog-reporter.yaml
// 3. ~/.config/catalog-reporter/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("catalog-reporter")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "catalog-reporter"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateInit checks configuration required for the init command.
func (c *Config) ValidateInit() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Init.CSVPath == "" && c.Init.Rows < 1 {
		return fmt.Errorf("either a CSV path or a positive row count is required")
	}
	if c.Init.CSVPath != "" {
		if _, err := os.Stat(c.Init.CSVPath); err != nil {
			return fmt.Errorf("CSV file not accessible: %w", err)
		}
	}
	return nil
}

// ValidateClean checks configuration required for the clean command.
func (c *Config) ValidateClean() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Clean.SampleLimit < 0 {
		return fmt.Errorf("sample_limit must be non-negative")
	}
	return nil
}

// ValidateReport checks configuration required for the report command.
func (c *Config) ValidateReport() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Report.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1")
	}
	if c.Report.MaxRows < 0 {
		return fmt.Errorf("max_rows must be non-negative")
	}
	return nil
}
