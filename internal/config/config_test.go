package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel 'info', got '%s'", cfg.LogLevel)
	}

	// Init defaults
	if cfg.Init.CSVPath != "" {
		t.Errorf("Expected empty Init.CSVPath, got '%s'", cfg.Init.CSVPath)
	}
	if cfg.Init.Rows != 5000 {
		t.Errorf("Expected Init.Rows 5000, got %d", cfg.Init.Rows)
	}
	if cfg.Init.DropExisting != false {
		t.Error("Expected Init.DropExisting false")
	}

	// Clean defaults
	if cfg.Clean.SampleLimit != 10 {
		t.Errorf("Expected Clean.SampleLimit 10, got %d", cfg.Clean.SampleLimit)
	}

	// Report defaults
	if cfg.Report.Parallel != 1 {
		t.Errorf("Expected Report.Parallel 1, got %d", cfg.Report.Parallel)
	}
	if cfg.Report.MaxRows != 50 {
		t.Errorf("Expected Report.MaxRows 50, got %d", cfg.Report.MaxRows)
	}
	if cfg.Report.AllowDirty {
		t.Error("Expected Report.AllowDirty false")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing connection string")
	}

	cfg.Connection = "postgres://localhost/test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidateInit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Connection = "postgres://localhost/test"

	// Defaults generate synthetic rows; valid.
	if err := cfg.ValidateInit(); err != nil {
		t.Errorf("Unexpected error with defaults: %v", err)
	}

	cfg.Init.Rows = 0
	if err := cfg.ValidateInit(); err == nil {
		t.Error("Expected error with no CSV and zero rows")
	}

	cfg.Init.CSVPath = filepath.Join(t.TempDir(), "missing.csv")
	if err := cfg.ValidateInit(); err == nil {
		t.Error("Expected error for nonexistent CSV file")
	}

	csvPath := filepath.Join(t.TempDir(), "products.csv")
	if err := os.WriteFile(csvPath, []byte("name\n"), 0o644); err != nil {
		t.Fatalf("Failed to write temp CSV: %v", err)
	}
	cfg.Init.CSVPath = csvPath
	if err := cfg.ValidateInit(); err != nil {
		t.Errorf("Unexpected error with existing CSV: %v", err)
	}
}

func TestValidateClean(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Connection = "postgres://localhost/test"

	if err := cfg.ValidateClean(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	cfg.Clean.SampleLimit = -1
	if err := cfg.ValidateClean(); err == nil {
		t.Error("Expected error for negative sample_limit")
	}
}

func TestValidateReport(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Connection = "postgres://localhost/test"

	if err := cfg.ValidateReport(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	cfg.Report.Parallel = 0
	if err := cfg.ValidateReport(); err == nil {
		t.Error("Expected error for zero parallel")
	}

	cfg.Report.Parallel = 4
	cfg.Report.MaxRows = -1
	if err := cfg.ValidateReport(); err == nil {
		t.Error("Expected error for negative max_rows")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog-reporter.yaml")

	content := []byte(`
connection: postgres://example/catalog
log_level: debug
init:
  rows: 250
report:
  parallel: 4
  max_rows: 20
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Connection != "postgres://example/catalog" {
		t.Errorf("Expected connection from file, got '%s'", cfg.Connection)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log_level 'debug', got '%s'", cfg.LogLevel)
	}
	if cfg.Init.Rows != 250 {
		t.Errorf("Expected init.rows 250, got %d", cfg.Init.Rows)
	}
	if cfg.Report.Parallel != 4 {
		t.Errorf("Expected report.parallel 4, got %d", cfg.Report.Parallel)
	}
	if cfg.Report.MaxRows != 20 {
		t.Errorf("Expected report.max_rows 20, got %d", cfg.Report.MaxRows)
	}

	// Values absent from the file keep their defaults.
	if cfg.Clean.SampleLimit != 10 {
		t.Errorf("Expected default clean.sample_limit 10, got %d", cfg.Clean.SampleLimit)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	// Point at a directory with no config file.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	defer os.Chdir(wd)

	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Report.Parallel != 1 {
		t.Errorf("Expected default parallel 1, got %d", cfg.Report.Parallel)
	}
}
