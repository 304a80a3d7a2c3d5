package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Stage constants
	StageAll   = "all"
	StagePDF   = "pdf"
	StageDOCX  = "docx"
	StageMerge = "merge"
	StageWrite = "write"

	// Default values
	DefaultLogLevel     = "info"
	DefaultMaxFileSize  = 100 * 1024 * 1024 // 100MB
	DefaultGapTolerance = 12.0

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the audit fill pipeline
type Config struct {
	// Pipeline configuration
	Stage     string // which stage(s) to run
	OutputDir string

	// PDF extraction configuration
	MaxFileSize  int64   // Maximum PDF file size in bytes
	GapTolerance float64 // X-gap (points) that separates table cells

	// Application configuration
	Version          string
	LogLevel         string
	KeepIntermediate bool // keep stage artifacts next to the output
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Stage:            StageAll,
		OutputDir:        currentDir,
		MaxFileSize:      DefaultMaxFileSize,
		GapTolerance:     DefaultGapTolerance,
		Version:          "1.0.0",
		LogLevel:         DefaultLogLevel,
		KeepIntermediate: true,
	}
}

// LoadFromFlags parses command line flags and returns the configuration and
// the positional arguments (input files).
func LoadFromFlags() (*Config, []string, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.OutputDir != "" {
		if expandedPath, err := filepath.Abs(cfg.OutputDir); err == nil {
			cfg.OutputDir = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, pflag.Args(), nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("AUDITFILL")
	viper.AutomaticEnv()

	viper.SetDefault("stage", cfg.Stage)
	viper.SetDefault("outdir", cfg.OutputDir)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("gaptolerance", cfg.GapTolerance)
	viper.SetDefault("keepintermediate", cfg.KeepIntermediate)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("stage", cfg.Stage, "Pipeline stage: 'all', 'pdf', 'docx', 'merge' or 'write'")
	pflag.String("outdir", cfg.OutputDir, "Directory for output and intermediate artifacts")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Float64("gaptolerance", cfg.GapTolerance, "Horizontal gap in points that splits PDF table cells")
	pflag.Bool("keepintermediate", cfg.KeepIntermediate, "Keep per-stage JSON artifacts in the output directory")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("stage", pflag.Lookup("stage"))
	_ = viper.BindPFlag("outdir", pflag.Lookup("outdir"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("gaptolerance", pflag.Lookup("gaptolerance"))
	_ = viper.BindPFlag("keepintermediate", pflag.Lookup("keepintermediate"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nauditfill - fill NHVAS audit report templates from audit PDFs\n\n")
		fmt.Fprintf(os.Stderr, "  %s [options] <report.pdf> <template.docx> <output.docx>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s audit.pdf template.docx filled.docx          # full pipeline\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --stage=pdf audit.pdf                        # PDF extraction only\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --stage=docx template.docx                   # placeholder extraction only\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  AUDITFILL_STAGE            Pipeline stage\n")
		fmt.Fprintf(os.Stderr, "  AUDITFILL_OUTDIR           Output directory\n")
		fmt.Fprintf(os.Stderr, "  AUDITFILL_LOGLEVEL         Log level\n")
		fmt.Fprintf(os.Stderr, "  AUDITFILL_MAXFILESIZE      Maximum PDF size\n")
		fmt.Fprintf(os.Stderr, "  AUDITFILL_GAPTOLERANCE     Table cell gap tolerance\n")
		fmt.Fprintf(os.Stderr, "  AUDITFILL_KEEPINTERMEDIATE Keep stage artifacts\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Stage = viper.GetString("stage")
	cfg.OutputDir = viper.GetString("outdir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.GapTolerance = viper.GetFloat64("gaptolerance")
	cfg.KeepIntermediate = viper.GetBool("keepintermediate")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Stage {
	case StageAll, StagePDF, StageDOCX, StageMerge, StageWrite:
	default:
		return fmt.Errorf("invalid stage: %s (must be one of: all, pdf, docx, merge, write)", c.Stage)
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.GapTolerance <= 0 {
		return errors.New("gap tolerance must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Stage: %s, OutputDir: %s, LogLevel: %s, MaxFileSize: %d, GapTolerance: %.1f}",
		c.Stage, c.OutputDir, c.LogLevel, c.MaxFileSize, c.GapTolerance)
}
