package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test default values
	if cfg.Stage != StageAll {
		t.Errorf("Expected default stage to be 'all', got '%s'", cfg.Stage)
	}

	if cfg.Version != "1.0.0" {
		t.Errorf("Expected default version to be '1.0.0', got '%s'", cfg.Version)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	if cfg.GapTolerance != DefaultGapTolerance {
		t.Errorf("Expected default gap tolerance to be %.1f, got %.1f", DefaultGapTolerance, cfg.GapTolerance)
	}

	if !cfg.KeepIntermediate {
		t.Error("Expected intermediate artifacts to be kept by default")
	}

	// Test that output directory is set to current working directory by default
	currentDir, _ := os.Getwd()
	if cfg.OutputDir != currentDir {
		t.Errorf("Expected default output directory to be '%s', got '%s'", currentDir, cfg.OutputDir)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func(mutate func(*Config)) *Config {
		cfg := DefaultConfig()
		mutate(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid default config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name:    "valid single stage",
			config:  valid(func(c *Config) { c.Stage = StageMerge }),
			wantErr: false,
		},
		{
			name:    "invalid stage",
			config:  valid(func(c *Config) { c.Stage = "transmogrify" }),
			wantErr: true,
		},
		{
			name:    "empty output directory",
			config:  valid(func(c *Config) { c.OutputDir = "" }),
			wantErr: true,
		},
		{
			name:    "non-positive max file size",
			config:  valid(func(c *Config) { c.MaxFileSize = 0 }),
			wantErr: true,
		},
		{
			name:    "non-positive gap tolerance",
			config:  valid(func(c *Config) { c.GapTolerance = -1 }),
			wantErr: true,
		},
		{
			name:    "invalid log level",
			config:  valid(func(c *Config) { c.LogLevel = "verbose" }),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCreatesOutputDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "artifacts")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	info, err := os.Stat(cfg.OutputDir)
	if err != nil {
		t.Fatalf("output directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("output directory path %s is not a directory", cfg.OutputDir)
	}
}

func TestIsDebug(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.IsDebug() {
		t.Error("Expected IsDebug() to be false for default config")
	}
	cfg.LogLevel = "debug"
	if !cfg.IsDebug() {
		t.Error("Expected IsDebug() to be true when log level is debug")
	}
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.String()
	if s == "" {
		t.Error("Expected non-empty string representation")
	}
	if !containsString(s, "all") {
		t.Errorf("Expected string representation to mention the stage, got: %s", s)
	}
}
