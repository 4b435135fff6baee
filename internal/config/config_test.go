package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := `root: ./design-system
dry_run: true
conventions:
  shared_module_marker: shared-docs
  doc_imports: []
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MDXMIGRATE_ROOT", "/srv/ds")
	t.Setenv("MDXMIGRATE_EXCLUDED_MODULES", "react, @storybook/addon-docs ,lodash")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Root != "/srv/ds" {
		t.Errorf("expected env to override root, got %q", cfg.Root)
	}
	if !cfg.DryRun {
		t.Error("expected dry_run from file")
	}
	if cfg.Conventions.SharedModuleMarker != "shared-docs" {
		t.Errorf("expected marker from file, got %q", cfg.Conventions.SharedModuleMarker)
	}
	if len(cfg.Conventions.DocImports) != 0 {
		t.Errorf("expected doc imports cleared by file, got %v", cfg.Conventions.DocImports)
	}
	if cfg.Conventions.BlocksModule != "@storybook/blocks" {
		t.Errorf("expected default blocks module kept, got %q", cfg.Conventions.BlocksModule)
	}
	if got := strings.Join(cfg.Conventions.ExcludedModules, "|"); got != "react|@storybook/addon-docs|lodash" {
		t.Errorf("unexpected excluded modules %q", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("root: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"port", func(c *Config) { c.Port = "http" }, "port"},
		{"upload limit", func(c *Config) { c.MaxUploadBytes = 0 }, "max_upload_bytes"},
		{"empty root", func(c *Config) { c.Root = "" }, "root"},
		{"module suffix", func(c *Config) { c.Conventions.ModuleSuffix = "Not-Valid" }, "module_suffix"},
		{"marker", func(c *Config) { c.Conventions.SharedModuleMarker = "" }, "shared_module_marker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error to name %q, got %v", tt.field, err)
			}
		})
	}
}
