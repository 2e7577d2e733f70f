package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Parse.MaxSizeMB != 512 {
		t.Errorf("expected max size 512 MB, got %d", cfg.Parse.MaxSizeMB)
	}
	if cfg.Parse.Strict {
		t.Error("expected strict to be false by default")
	}
	if cfg.Parse.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Parse.Timeout)
	}
	if cfg.Output.Format != FormatText {
		t.Errorf("expected text output, got %s", cfg.Output.Format)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", cfg.Logging.Level)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "pmxtool.yaml")

	yamlContent := `
parse:
  max_size_mb: 64
  strict: true
  timeout: 5s

output:
  format: yaml
  max_rows: 20

logging:
  level: "debug"
  log_file: "pmxtool.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Parse.MaxSizeMB != 64 || !cfg.Parse.Strict || cfg.Parse.Timeout != 5*time.Second {
		t.Errorf("parse = %+v", cfg.Parse)
	}
	if cfg.Output.Format != FormatYAML || cfg.Output.MaxRows != 20 {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "pmxtool.log" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "pmxtool.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  max_rows: 5\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Unset keys keep their defaults.
	if cfg.Output.MaxRows != 5 || cfg.Output.Format != FormatText {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Parse.MaxSizeMB != 512 {
		t.Errorf("expected default max size, got %d", cfg.Parse.MaxSizeMB)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
parse:
  max_size_mb: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/pmxtool.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !strings.Contains(strings.ToLower(dir), "pmx") {
		t.Errorf("ConfigDir should be tool specific, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, fileName), []byte("parse:\n  strict: true\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", fileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "strict flag",
			setup: func() { *flagStrict = true },
			verify: func(cfg *Config) {
				if !cfg.Parse.Strict {
					t.Error("expected strict parsing")
				}
			},
			teardown: func() { *flagStrict = false },
		},
		{
			name: "size and timeout flags",
			setup: func() {
				*flagMaxSize = 8
				*flagTimeout = time.Second
			},
			verify: func(cfg *Config) {
				if cfg.Parse.MaxSizeMB != 8 {
					t.Errorf("expected max size 8, got %d", cfg.Parse.MaxSizeMB)
				}
				if cfg.Parse.Timeout != time.Second {
					t.Errorf("expected timeout 1s, got %v", cfg.Parse.Timeout)
				}
			},
			teardown: func() {
				*flagMaxSize = 0
				*flagTimeout = 0
			},
		},
		{
			name: "format and log file flags",
			setup: func() {
				*flagFormat = FormatYAML
				*flagLogFile = "out.log"
			},
			verify: func(cfg *Config) {
				if cfg.Output.Format != FormatYAML {
					t.Errorf("expected yaml output, got %s", cfg.Output.Format)
				}
				if cfg.Logging.LogFile != "out.log" {
					t.Errorf("expected log file out.log, got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() {
				*flagFormat = ""
				*flagLogFile = ""
			},
		},
		{
			name:  "no flags keeps defaults",
			setup: func() {},
			verify: func(cfg *Config) {
				if cfg.Parse.MaxSizeMB != 512 || cfg.Output.Format != FormatText {
					t.Errorf("defaults changed: %+v", cfg)
				}
			},
			teardown: func() {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "pmxtool.yaml")
	yamlContent := `
parse:
  max_size_mb: 100
  timeout: 2s
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagMaxSize = 200
	defer func() {
		*flagConfig = ""
		*flagMaxSize = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flag beats file, file beats default.
	if cfg.Parse.MaxSizeMB != 200 {
		t.Errorf("expected max size 200 from flag, got %d", cfg.Parse.MaxSizeMB)
	}
	if cfg.Parse.Timeout != 2*time.Second {
		t.Errorf("expected timeout 2s from file, got %v", cfg.Parse.Timeout)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	*flagConfig = filepath.Join(t.TempDir(), "none.yaml")
	*flagFormat = "xml"
	defer func() {
		*flagConfig = ""
		*flagFormat = ""
	}()

	// Missing explicit file is an error before the format is checked.
	if _, err := Load(); err == nil {
		t.Error("expected error for missing explicit config")
	}

	*flagConfig = ""
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "xml") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}

func TestParseOptions(t *testing.T) {
	cfg := Default()
	cfg.Parse.MaxSizeMB = 2
	cfg.Parse.Strict = true
	log := zap.NewNop()

	opts := cfg.ParseOptions(log)
	if opts.MaxSize != 2<<20 {
		t.Errorf("expected MaxSize %d, got %d", 2<<20, opts.MaxSize)
	}
	if !opts.Strict || opts.Logger != log {
		t.Errorf("options = %+v", opts)
	}

	cfg.Parse.MaxSizeMB = 0
	if opts := cfg.ParseOptions(nil); opts.MaxSize != 0 {
		t.Errorf("expected no limit, got %d", opts.MaxSize)
	}
}

func TestContextTimeout(t *testing.T) {
	cfg := Default()
	cfg.Parse.Timeout = time.Minute

	ctx, cancel := cfg.Context(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("expected a deadline")
	}

	cfg.Parse.Timeout = 0
	ctx2, cancel2 := cfg.Context(context.Background())
	defer cancel2()
	if _, ok := ctx2.Deadline(); ok {
		t.Error("expected no deadline")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pmxtool.yaml")

	cfg := Default()
	cfg.Output.MaxRows = 7
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if loaded.Output.MaxRows != 7 || loaded.Parse.Timeout != cfg.Parse.Timeout {
		t.Errorf("reloaded = %+v", loaded)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"parse:", "  max_size_mb: 512", "  format: text", "logging:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}
