package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alnovis/protounify/pkg/observability"
)

// VersionConfig declares one schema version and where its sources live.
type VersionConfig struct {
	// ID is the opaque version identifier. Declaration order in the
	// versions list is significant: the last entry is the default write
	// target.
	ID string `yaml:"id"`
	// Path is the version's source directory, relative to the schema root.
	Path string `yaml:"path"`
}

// NamingConfig holds options shaping generated identifiers.
type NamingConfig struct {
	// TypeOverrides maps fully qualified schema type names to replacement
	// identifiers in generated output.
	TypeOverrides map[string]string `yaml:"type_overrides"`
	// VersionSuffix appends the version ID to version-specific accessors.
	VersionSuffix bool `yaml:"version_suffix"`
	// MessagePrefix is prepended to every generated message identifier.
	MessagePrefix string `yaml:"message_prefix"`
}

// Config holds all generator configuration.
type Config struct {
	// SchemaRoot is the directory containing per-version source trees.
	SchemaRoot string `yaml:"schema_root"`
	// OutputDir receives generated output.
	OutputDir string `yaml:"output_dir"`
	// CacheDir holds the incremental state snapshot.
	CacheDir string `yaml:"cache_dir"`

	// Versions lists the schema versions to merge, in order.
	Versions []VersionConfig `yaml:"versions"`

	// Include and Exclude filter source files by glob-like prefix.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	// IgnoreImports lists import-path prefixes excluded from dependency
	// tracking. Empty means the built-in well-known list.
	IgnoreImports []string `yaml:"ignore_imports"`

	Naming NamingConfig `yaml:"naming"`

	// LogLevel controls pipeline logging (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// WatchDebounce batches filesystem events in watch mode.
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		SchemaRoot:    ".",
		OutputDir:     "gen",
		CacheDir:      ".protounify-cache",
		LogLevel:      "info",
		WatchDebounce: 500 * time.Millisecond,
	}
}

// Load reads configuration from the given YAML file, applies environment
// overrides and validates the result. An empty path loads defaults plus
// environment overrides only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides individual settings from PROTOUNIFY_* variables.
func (c *Config) applyEnv() {
	c.SchemaRoot = getEnv("PROTOUNIFY_SCHEMA_ROOT", c.SchemaRoot)
	c.OutputDir = getEnv("PROTOUNIFY_OUTPUT_DIR", c.OutputDir)
	c.CacheDir = getEnv("PROTOUNIFY_CACHE_DIR", c.CacheDir)
	c.LogLevel = getEnv("PROTOUNIFY_LOG_LEVEL", c.LogLevel)
	c.WatchDebounce = getEnvDuration("PROTOUNIFY_WATCH_DEBOUNCE", c.WatchDebounce)

	if ignores := getEnv("PROTOUNIFY_IGNORE_IMPORTS", ""); ignores != "" {
		c.IgnoreImports = splitList(ignores)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SchemaRoot == "" {
		return fmt.Errorf("schema root is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.CacheDir == "" {
		return fmt.Errorf("cache directory is required")
	}
	if len(c.Versions) == 0 {
		return fmt.Errorf("at least one version is required")
	}

	seen := make(map[string]bool, len(c.Versions))
	for i, v := range c.Versions {
		if v.ID == "" {
			return fmt.Errorf("version %d: id is required", i)
		}
		if v.Path == "" {
			return fmt.Errorf("version %s: path is required", v.ID)
		}
		if seen[v.ID] {
			return fmt.Errorf("duplicate version id: %s", v.ID)
		}
		seen[v.ID] = true
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch debounce must not be negative")
	}
	return nil
}

// ParsedLogLevel returns the configured log level as an observability level.
func (c *Config) ParsedLogLevel() observability.LogLevel {
	return observability.ParseLogLevel(strings.ToLower(c.LogLevel))
}

// DefaultVersion returns the ID of the default write target (the last
// declared version), or empty when no versions are configured.
func (c *Config) DefaultVersion() string {
	if len(c.Versions) == 0 {
		return ""
	}
	return c.Versions[len(c.Versions)-1].ID
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
