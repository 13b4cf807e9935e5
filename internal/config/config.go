// =============================================================================
// BOM Structure Converter - Configuration Module
// =============================================================================
//
// This module loads and manages the application configuration. Settings come
// from three layers, later layers overriding earlier ones:
//
//   1. Built-in defaults (applyDefaults)
//   2. An optional YAML file (bomconv.yaml by default)
//   3. Environment variables with the BOMCONV_ prefix, e.g.
//      BOMCONV_OUTPUT_DIR, BOMCONV_COMPANY_CODE
//
// The environment layer exists so the tool can be dropped onto a shared
// workstation without editing files next to the binary.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPrefix is the prefix for environment overrides.
const envPrefix = "bomconv"

// Config holds the application configuration.
type Config struct {
	// CompanyCode is the EMP value written to every output line.
	// Default: "001"
	CompanyCode string `yaml:"company_code" envconfig:"COMPANY_CODE"`

	// OutputDir is where conversion folders are created. When empty the
	// folder is created next to the input file.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`

	// ReferenceFile is the registered-codes CSV used by the OLZ
	// verification.
	ReferenceFile string `yaml:"reference_file" envconfig:"REFERENCE_FILE"`

	// DescriptionWidthLimit is the weighted-width ceiling for
	// descriptions. Default: 80
	DescriptionWidthLimit float64 `yaml:"description_width_limit" envconfig:"DESCRIPTION_WIDTH_LIMIT"`

	// SpecialPrefixes are the code prefixes flagged for manual review.
	// Default: Z03, Z20
	SpecialPrefixes []string `yaml:"special_prefixes" envconfig:"SPECIAL_PREFIXES"`

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// MaxConcurrency caps how many input files convert in parallel.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY"`

	// StopOnError aborts a multi-file run when one file fails. The
	// default keeps going and reports failures at the end.
	StopOnError bool `yaml:"stop_on_error" envconfig:"STOP_ON_ERROR"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file, applies defaults, and then applies
// environment overrides. A missing file is not an error: the defaults
// plus environment are used.
func Load(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	case os.IsNotExist(err):
		// Fall through to defaults.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset options.
func applyDefaults(cfg *Config) {
	if cfg.CompanyCode == "" {
		cfg.CompanyCode = "001"
	}
	if cfg.DescriptionWidthLimit == 0 {
		cfg.DescriptionWidthLimit = 80
	}
	if len(cfg.SpecialPrefixes) == 0 {
		cfg.SpecialPrefixes = []string{"Z03", "Z20"}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 4
	}
}

// validate checks the configuration for values the converters cannot
// work with.
func validate(cfg *Config) error {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}

	if cfg.DescriptionWidthLimit <= 0 {
		return fmt.Errorf("description_width_limit must be positive, got %v", cfg.DescriptionWidthLimit)
	}
	if cfg.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", cfg.MaxConcurrency)
	}
	if cfg.CompanyCode == "" {
		return fmt.Errorf("company_code must not be empty")
	}

	for _, p := range cfg.SpecialPrefixes {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("special_prefixes must not contain blank entries")
		}
	}

	return nil
}
