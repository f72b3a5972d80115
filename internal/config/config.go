// Package config loads phpdoctor configuration.
//
// Configuration hierarchy (later wins):
//  1. Hardcoded defaults (NewConfig)
//  2. User config (~/.config/phpdoctor/config.yaml)
//  3. Environment variables (PHPDOCTOR_*)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Known Homebrew prefixes. Apple Silicon installs under /opt/homebrew,
// Intel under /usr/local.
const (
	BrewPrefixARM   = "/opt/homebrew"
	BrewPrefixIntel = "/usr/local"
)

// Config represents the complete phpdoctor configuration.
type Config struct {
	Version int         `yaml:"version" json:"version"`
	Brew    BrewConfig  `yaml:"brew" json:"brew"`
	Valet   ValetConfig `yaml:"valet" json:"valet"`
	Paths   PathsConfig `yaml:"paths" json:"paths"`
	Watch   WatchConfig `yaml:"watch" json:"watch"`
	Logging LogConfig   `yaml:"logging" json:"logging"`
}

// BrewConfig configures the Homebrew interaction.
type BrewConfig struct {
	// Prefix is the Homebrew installation prefix. Empty means auto-detect.
	Prefix string `yaml:"prefix" json:"prefix"`

	// Formula is the aliased PHP formula queried for the active version.
	Formula string `yaml:"formula" json:"formula"`

	// CacheTTL is how long brew query results are cached in watch mode.
	CacheTTL time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
}

// ValetConfig configures where Laravel Valet may be installed.
type ValetConfig struct {
	// BinPaths are the known valet executable locations, checked in order.
	BinPaths []string `yaml:"bin_paths" json:"bin_paths"`
}

// PathsConfig configures filesystem locations the checks read.
type PathsConfig struct {
	// SudoersBrew is the sudoers drop-in that must reference the brew binary.
	SudoersBrew string `yaml:"sudoers_brew" json:"sudoers_brew"`

	// SudoersValet is the sudoers drop-in that must reference valet.
	SudoersValet string `yaml:"sudoers_valet" json:"sudoers_valet"`

	// DataDir holds the marker file and the history database.
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// MarkerTTL is how long a recorded clean pass suppresses startup
	// validation. Zero or negative keeps any existing marker valid.
	MarkerTTL time.Duration `yaml:"marker_ttl" json:"marker_ttl"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce is the window for coalescing file events before re-validating.
	Debounce time.Duration `yaml:"debounce" json:"debounce"`

	// PollInterval drives the periodic service re-check; file events
	// cannot observe brew service state changes.
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Version: 1,
		Brew: BrewConfig{
			Prefix:   "",
			Formula:  "php",
			CacheTTL: 30 * time.Second,
		},
		Valet: ValetConfig{
			BinPaths: []string{
				filepath.Join(home, ".composer", "vendor", "bin", "valet"),
				filepath.Join(home, ".config", "composer", "vendor", "bin", "valet"),
			},
		},
		Paths: PathsConfig{
			SudoersBrew:  "/etc/sudoers.d/brew",
			SudoersValet: "/etc/sudoers.d/valet",
			DataDir:      filepath.Join(home, ".phpdoctor"),
			MarkerTTL:    24 * time.Hour,
		},
		Watch: WatchConfig{
			Debounce:     200 * time.Millisecond,
			PollInterval: 15 * time.Second,
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}

// UserConfigPath returns the user config file location.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "phpdoctor", "config.yaml")
}

// Load builds the effective configuration: defaults, then the user config
// file if present, then environment overrides. Validation errors from the
// file are returned; a missing file is not an error.
func Load() (*Config, error) {
	cfg := NewConfig()

	if path := UserConfigPath(); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile merges a YAML config file into cfg. Missing files are ignored.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv applies PHPDOCTOR_* environment overrides.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PHPDOCTOR_BREW_PREFIX"); v != "" {
		cfg.Brew.Prefix = v
	}
	if v := os.Getenv("PHPDOCTOR_PHP_FORMULA"); v != "" {
		cfg.Brew.Formula = v
	}
	if v := os.Getenv("PHPDOCTOR_DATA_DIR"); v != "" {
		cfg.Paths.DataDir = v
	}
	if v := os.Getenv("PHPDOCTOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PHPDOCTOR_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Brew.CacheTTL = d
		}
	}
	if v := os.Getenv("PHPDOCTOR_MARKER_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Paths.MarkerTTL = d
		}
	}
	if v := os.Getenv("PHPDOCTOR_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Watch.PollInterval = d
		}
	}
}

// applyDefaults fills zero values left by partial config files.
func (c *Config) applyDefaults() {
	def := NewConfig()
	if c.Brew.Formula == "" {
		c.Brew.Formula = def.Brew.Formula
	}
	if c.Brew.CacheTTL <= 0 {
		c.Brew.CacheTTL = def.Brew.CacheTTL
	}
	if len(c.Valet.BinPaths) == 0 {
		c.Valet.BinPaths = def.Valet.BinPaths
	}
	if c.Paths.SudoersBrew == "" {
		c.Paths.SudoersBrew = def.Paths.SudoersBrew
	}
	if c.Paths.SudoersValet == "" {
		c.Paths.SudoersValet = def.Paths.SudoersValet
	}
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = def.Paths.DataDir
	}
	if c.Paths.MarkerTTL == 0 {
		c.Paths.MarkerTTL = def.Paths.MarkerTTL
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = def.Watch.Debounce
	}
	if c.Watch.PollInterval <= 0 {
		c.Watch.PollInterval = def.Watch.PollInterval
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Brew.Prefix == "" {
		c.Brew.Prefix = DetectBrewPrefix(fileExists)
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q (use: debug, info, warn, error)", c.Logging.Level)
	}
	if !filepath.IsAbs(c.Brew.Prefix) {
		return fmt.Errorf("brew prefix must be absolute, got %q", c.Brew.Prefix)
	}
	return nil
}

// DetectBrewPrefix picks the Homebrew prefix for this machine.
// ARM prefix wins when both exist; Intel prefix is the fallback default.
func DetectBrewPrefix(exists func(string) bool) string {
	if exists(filepath.Join(BrewPrefixARM, "bin", "brew")) {
		return BrewPrefixARM
	}
	if exists(filepath.Join(BrewPrefixIntel, "bin", "brew")) {
		return BrewPrefixIntel
	}
	return BrewPrefixARM
}

// PHPBinPath returns the expected php binary path under the brew prefix.
func (c *Config) PHPBinPath() string {
	return filepath.Join(c.Brew.Prefix, "bin", "php")
}

// BrewBinPath returns the brew binary path.
func (c *Config) BrewBinPath() string {
	return filepath.Join(c.Brew.Prefix, "bin", "brew")
}

// OptDir returns the Homebrew opt directory holding formula links.
func (c *Config) OptDir() string {
	return filepath.Join(c.Brew.Prefix, "opt")
}

// String renders the effective config as YAML for `phpdoctor config`.
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(data)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
