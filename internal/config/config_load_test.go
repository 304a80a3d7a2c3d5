package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// Helper function to set os.Args for testing
func setArgs(args []string) {
	os.Args = args
}

// Helper function to clear environment variables
func clearEnvVars() {
	os.Unsetenv("AUDITFILL_STAGE")
	os.Unsetenv("AUDITFILL_OUTDIR")
	os.Unsetenv("AUDITFILL_LOGLEVEL")
	os.Unsetenv("AUDITFILL_MAXFILESIZE")
	os.Unsetenv("AUDITFILL_GAPTOLERANCE")
	os.Unsetenv("AUDITFILL_KEEPINTERMEDIATE")
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	// Save original args and environment
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	// Set minimal args (just program name)
	setArgs([]string{"auditfill"})
	resetFlags()
	clearEnvVars()

	cfg, args, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	// Verify default values
	if cfg.Stage != StageAll {
		t.Errorf("LoadFromFlags() Stage = %v, want %v", cfg.Stage, StageAll)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 100*1024*1024)
	}
	if cfg.GapTolerance != DefaultGapTolerance {
		t.Errorf("LoadFromFlags() GapTolerance = %v, want %v", cfg.GapTolerance, DefaultGapTolerance)
	}
	// OutputDir should be current working directory
	if cfg.OutputDir == "" {
		t.Error("LoadFromFlags() OutputDir should not be empty")
	}
	if len(args) != 0 {
		t.Errorf("LoadFromFlags() positional args = %v, want none", args)
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	tests := []struct {
		name             string
		argsTemplate     []string
		wantStage        string
		wantLogLevel     string
		wantMaxFileSize  int64
		wantGapTolerance float64
	}{
		{
			name:             "full pipeline with custom directory",
			argsTemplate:     []string{"auditfill", "--outdir=%s"},
			wantStage:        StageAll,
			wantLogLevel:     "info",
			wantMaxFileSize:  100 * 1024 * 1024,
			wantGapTolerance: DefaultGapTolerance,
		},
		{
			name:             "pdf stage only",
			argsTemplate:     []string{"auditfill", "--stage=pdf", "--outdir=%s"},
			wantStage:        StagePDF,
			wantLogLevel:     "info",
			wantMaxFileSize:  100 * 1024 * 1024,
			wantGapTolerance: DefaultGapTolerance,
		},
		{
			name:             "debug logging",
			argsTemplate:     []string{"auditfill", "--loglevel=debug", "--outdir=%s"},
			wantStage:        StageAll,
			wantLogLevel:     "debug",
			wantMaxFileSize:  100 * 1024 * 1024,
			wantGapTolerance: DefaultGapTolerance,
		},
		{
			name:             "custom max file size",
			argsTemplate:     []string{"auditfill", "--maxfilesize=50000000", "--outdir=%s"},
			wantStage:        StageAll,
			wantLogLevel:     "info",
			wantMaxFileSize:  50000000,
			wantGapTolerance: DefaultGapTolerance,
		},
		{
			name:             "custom gap tolerance",
			argsTemplate:     []string{"auditfill", "--gaptolerance=8.5", "--outdir=%s"},
			wantStage:        StageAll,
			wantLogLevel:     "info",
			wantMaxFileSize:  100 * 1024 * 1024,
			wantGapTolerance: 8.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save original args and environment
			originalArgs := os.Args
			defer func() {
				os.Args = originalArgs
				resetFlags()
				clearEnvVars()
			}()

			// Create temp directory for this test
			tempDir := t.TempDir()

			// Build args with temp directory
			args := make([]string, len(tt.argsTemplate))
			for i, arg := range tt.argsTemplate {
				if arg == "--outdir=%s" {
					args[i] = "--outdir=" + tempDir
				} else {
					args[i] = arg
				}
			}

			setArgs(args)
			resetFlags()
			clearEnvVars()

			cfg, _, err := LoadFromFlags()
			if err != nil {
				t.Fatalf("LoadFromFlags() unexpected error: %v", err)
			}

			if cfg.Stage != tt.wantStage {
				t.Errorf("LoadFromFlags() Stage = %v, want %v", cfg.Stage, tt.wantStage)
			}
			if cfg.LogLevel != tt.wantLogLevel {
				t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, tt.wantLogLevel)
			}
			if cfg.MaxFileSize != tt.wantMaxFileSize {
				t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, tt.wantMaxFileSize)
			}
			if cfg.GapTolerance != tt.wantGapTolerance {
				t.Errorf("LoadFromFlags() GapTolerance = %v, want %v", cfg.GapTolerance, tt.wantGapTolerance)
			}
			// OutputDir should be expanded to absolute path
			if cfg.OutputDir == "" {
				t.Error("LoadFromFlags() OutputDir should not be empty")
			}
		})
	}
}

func TestLoadFromFlags_PositionalArgs(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"auditfill", "--outdir=" + tempDir, "audit.pdf", "template.docx", "filled.docx"})
	resetFlags()
	clearEnvVars()

	_, args, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}
	want := []string{"audit.pdf", "template.docx", "filled.docx"}
	if len(args) != len(want) {
		t.Fatalf("LoadFromFlags() positional args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("LoadFromFlags() arg[%d] = %v, want %v", i, args[i], want[i])
		}
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	// Save original args and environment
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	// Create temp directory for testing
	tempDir := t.TempDir()

	// Set environment variables
	os.Setenv("AUDITFILL_STAGE", "merge")
	os.Setenv("AUDITFILL_OUTDIR", tempDir)
	os.Setenv("AUDITFILL_LOGLEVEL", "warn")
	os.Setenv("AUDITFILL_MAXFILESIZE", "200000000")

	setArgs([]string{"auditfill"})
	resetFlags()

	cfg, _, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Stage != StageMerge {
		t.Errorf("LoadFromFlags() Stage = %v, want %v", cfg.Stage, StageMerge)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "warn")
	}
	if cfg.MaxFileSize != 200000000 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 200000000)
	}
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	// Save original args and environment
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	os.Setenv("AUDITFILL_STAGE", "merge")
	os.Setenv("AUDITFILL_LOGLEVEL", "warn")

	// Set args that should override environment
	setArgs([]string{"auditfill", "--stage=write", "--loglevel=debug", "--outdir=" + tempDir})
	resetFlags()

	cfg, _, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	// Flags should override environment variables
	if cfg.Stage != StageWrite {
		t.Errorf("LoadFromFlags() Stage = %v, want %v (should override env)", cfg.Stage, StageWrite)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v (should override env)", cfg.LogLevel, "debug")
	}
}

func TestLoadFromFlags_InvalidStage(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"auditfill", "--stage=transmogrify", "--outdir=" + tempDir})
	resetFlags()
	clearEnvVars()

	_, _, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for invalid stage")
	}
	if err != nil && !containsString(err.Error(), "invalid stage") {
		t.Errorf("LoadFromFlags() error = %v, want error about invalid stage", err)
	}
}

func TestLoadFromFlags_InvalidGapTolerance(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"auditfill", "--gaptolerance=0", "--outdir=" + tempDir})
	resetFlags()
	clearEnvVars()

	_, _, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for non-positive gap tolerance")
	}
	if err != nil && !containsString(err.Error(), "gap tolerance must be positive") {
		t.Errorf("LoadFromFlags() error = %v, want error about gap tolerance", err)
	}
}

func TestLoadFromFlags_InvalidLogLevel(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"auditfill", "--loglevel=invalid", "--outdir=" + tempDir})
	resetFlags()
	clearEnvVars()

	_, _, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for invalid log level")
	}
	if err != nil && !containsString(err.Error(), "invalid log level") {
		t.Errorf("LoadFromFlags() error = %v, want error about invalid log level", err)
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"auditfill", "--version"})
	resetFlags()
	clearEnvVars()

	_, _, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected version error")
	}
	if err != nil && err.Error() != "version requested" {
		t.Errorf("LoadFromFlags() error = %v, want 'version requested'", err)
	}
}

// Helper function to check if a string contains a substring
func containsString(s, substr string) bool {
	return len(s) >= len(substr) &&
		(s == substr ||
			(len(s) > len(substr) &&
				(s[:len(substr)] == substr ||
					s[len(s)-len(substr):] == substr ||
					findSubstring(s, substr))))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
