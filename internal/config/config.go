package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no config path is
// given.
const DefaultFile = ".mdxmigrate.yaml"

type Config struct {
	// Batch runs
	Root            string `yaml:"root" json:"root"`
	CSFPattern      string `yaml:"csf_pattern" json:"csf_pattern"`
	HeadingsPattern string `yaml:"headings_pattern" json:"headings_pattern"`
	DryRun          bool   `yaml:"dry_run" json:"dry_run"`

	// Logging
	LogFormat string `yaml:"log_format" json:"log_format"`
	LogLevel  string `yaml:"log_level" json:"log_level"`

	// Preview server
	Port           string `yaml:"port" json:"port"`
	APIKey         string `yaml:"api_key" json:"api_key"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" json:"max_upload_bytes"`

	Conventions Conventions `yaml:"conventions" json:"conventions"`
}

// Conventions are the module names and markers baked into generated files.
type Conventions struct {
	ExcludedModules    []string `yaml:"excluded_modules" json:"excluded_modules"`
	SharedModuleMarker string   `yaml:"shared_module_marker" json:"shared_module_marker"`
	BlocksModule       string   `yaml:"blocks_module" json:"blocks_module"`
	SharedModulePath   string   `yaml:"shared_module_path" json:"shared_module_path"`
	RendererModule     string   `yaml:"renderer_module" json:"renderer_module"`
	DocImports         []string `yaml:"doc_imports" json:"doc_imports"`
	ModuleSuffix       string   `yaml:"module_suffix" json:"module_suffix"`
}

func Defaults() Config {
	return Config{
		Root:            ".",
		CSFPattern:      "stories/**/*.stories.mdx",
		HeadingsPattern: "stories/**/*.mdx",

		LogFormat: "text",
		LogLevel:  "info",

		Port:           "8090",
		MaxUploadBytes: 1 << 20, // 1MB

		Conventions: Conventions{
			ExcludedModules:    []string{"react", "@storybook/addon-docs"},
			SharedModuleMarker: "storybook-common",
			BlocksModule:       "@storybook/blocks",
			SharedModulePath:   "../storybook-common",
			RendererModule:     "@storybook/react",
			DocImports:         []string{`import { PropsTable } from "./props-table";`},
			ModuleSuffix:       "Stories",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (or DefaultFile if it exists), then MDXMIGRATE_* environment variables.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Root = envOr("MDXMIGRATE_ROOT", c.Root)
	c.CSFPattern = envOr("MDXMIGRATE_CSF_PATTERN", c.CSFPattern)
	c.HeadingsPattern = envOr("MDXMIGRATE_HEADINGS_PATTERN", c.HeadingsPattern)
	c.DryRun = envBool("MDXMIGRATE_DRY_RUN", c.DryRun)

	c.LogFormat = envOr("MDXMIGRATE_LOG_FORMAT", c.LogFormat)
	c.LogLevel = envOr("MDXMIGRATE_LOG_LEVEL", c.LogLevel)

	c.Port = envOr("MDXMIGRATE_PORT", c.Port)
	c.APIKey = envOr("MDXMIGRATE_API_KEY", c.APIKey)
	c.MaxUploadBytes = envInt64("MDXMIGRATE_MAX_UPLOAD_BYTES", c.MaxUploadBytes)

	c.Conventions.ExcludedModules = envList("MDXMIGRATE_EXCLUDED_MODULES", c.Conventions.ExcludedModules)
	c.Conventions.SharedModuleMarker = envOr("MDXMIGRATE_SHARED_MODULE_MARKER", c.Conventions.SharedModuleMarker)
	c.Conventions.SharedModulePath = envOr("MDXMIGRATE_SHARED_MODULE_PATH", c.Conventions.SharedModulePath)
}

var (
	portRe  = regexp.MustCompile(`^[0-9]{1,5}$`)
	identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.CSFPattern, validation.Required),
		validation.Field(&c.HeadingsPattern, validation.Required),
		validation.Field(&c.LogFormat, validation.In("text", "json")),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Port, validation.Required, validation.Match(portRe)),
		validation.Field(&c.MaxUploadBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.Conventions),
	)
}

func (c Conventions) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SharedModuleMarker, validation.Required),
		validation.Field(&c.BlocksModule, validation.Required),
		validation.Field(&c.SharedModulePath, validation.Required),
		validation.Field(&c.RendererModule, validation.Required),
		validation.Field(&c.ModuleSuffix, validation.Match(identRe)),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// envList reads a comma-separated list.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// IsNotExist reports whether err came from a missing config file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
