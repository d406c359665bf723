// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := []byte("log_level: debug\nstep_ms: 500\nworkers: 4\nseed: 42\nprogress_addr: 127.0.0.1:9090\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := New()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.StepMS != 500 {
		t.Errorf("StepMS = %d, want 500", cfg.StepMS)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if cfg.ProgressAddr != "127.0.0.1:9090" {
		t.Errorf("ProgressAddr = %q", cfg.ProgressAddr)
	}
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("workers: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := New()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if cfg.StepMS != DefaultStepMS {
		t.Errorf("StepMS = %d, want default %d", cfg.StepMS, DefaultStepMS)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want default", cfg.LogLevel)
	}
}

func TestLoadFileMissingExplicitPath(t *testing.T) {
	cfg := New()
	if err := cfg.LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFile should fail for a missing explicit path")
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("workers: [not an int\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := New()
	if err := cfg.LoadFile(path); err == nil {
		t.Error("LoadFile should fail on malformed yaml")
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("step_ms: 500\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ENV_STEP_MS", "750")
	t.Setenv("ENV_PROGRESS_ADDR", ":8088")

	cfg := New()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.StepMS != 750 {
		t.Errorf("StepMS = %d, want env override 750", cfg.StepMS)
	}
	if cfg.ProgressAddr != ":8088" {
		t.Errorf("ProgressAddr = %q, want :8088", cfg.ProgressAddr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults with report name", func(c *Config) { c.ReportName = "report" }, true},
		{"step too small", func(c *Config) { c.ReportName = "r"; c.StepMS = 1 }, false},
		{"zero workers", func(c *Config) { c.ReportName = "r"; c.Workers = 0 }, false},
		{"too many workers", func(c *Config) { c.ReportName = "r"; c.Workers = 1000 }, false},
		{"empty report name", func(c *Config) {}, false},
		{"report name with separator", func(c *Config) { c.ReportName = "a/b" }, false},
		{"probe skips report name", func(c *Config) { c.Command = "probe"; c.CommandArg = "x.wav" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
