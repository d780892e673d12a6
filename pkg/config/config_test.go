package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Versions = []VersionConfig{
		{ID: "v1", Path: "v1"},
		{ID: "v2", Path: "v2"},
	}
	return cfg
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "protounify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
schema_root: proto
output_dir: generated
versions:
  - id: v1
    path: v1
  - id: v2
    path: v2
naming:
  version_suffix: true
  type_overrides:
    Money: Amount
ignore_imports:
  - vendor/
log_level: debug
watch_debounce: 250ms
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "proto", cfg.SchemaRoot)
	assert.Equal(t, "generated", cfg.OutputDir)
	require.Len(t, cfg.Versions, 2)
	assert.Equal(t, "v2", cfg.DefaultVersion())
	assert.True(t, cfg.Naming.VersionSuffix)
	assert.Equal(t, "Amount", cfg.Naming.TypeOverrides["Money"])
	assert.Equal(t, []string{"vendor/"}, cfg.IgnoreImports)
	assert.Equal(t, 250*time.Millisecond, cfg.WatchDebounce)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("versions: [:::"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "protounify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
versions:
  - id: v1
    path: v1
`), 0o644))

	t.Setenv("PROTOUNIFY_SCHEMA_ROOT", "/srv/schemas")
	t.Setenv("PROTOUNIFY_LOG_LEVEL", "warn")
	t.Setenv("PROTOUNIFY_IGNORE_IMPORTS", "vendor/, legacy/")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/schemas", cfg.SchemaRoot)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{"vendor/", "legacy/"}, cfg.IgnoreImports)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no versions", func(c *Config) { c.Versions = nil }},
		{"empty version id", func(c *Config) { c.Versions[0].ID = "" }},
		{"empty version path", func(c *Config) { c.Versions[0].Path = "" }},
		{"duplicate version id", func(c *Config) { c.Versions[1].ID = "v1" }},
		{"empty schema root", func(c *Config) { c.SchemaRoot = "" }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"empty cache dir", func(c *Config) { c.CacheDir = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"negative debounce", func(c *Config) { c.WatchDebounce = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})
}

func TestHash(t *testing.T) {
	t.Run("stable across identical configs", func(t *testing.T) {
		a := validConfig()
		b := validConfig()
		a.Naming.TypeOverrides = map[string]string{"Money": "Amount", "Order": "PurchaseOrder"}
		b.Naming.TypeOverrides = map[string]string{"Order": "PurchaseOrder", "Money": "Amount"}
		assert.Equal(t, a.Hash(), b.Hash())
		assert.Len(t, a.Hash(), 16)
	})

	t.Run("output-affecting change alters hash", func(t *testing.T) {
		a := validConfig()
		b := validConfig()
		b.Naming.VersionSuffix = true
		assert.NotEqual(t, a.Hash(), b.Hash())

		c := validConfig()
		c.Versions = append(c.Versions, VersionConfig{ID: "v3", Path: "v3"})
		assert.NotEqual(t, a.Hash(), c.Hash())
	})

	t.Run("diagnostic-only change keeps hash", func(t *testing.T) {
		a := validConfig()
		b := validConfig()
		b.LogLevel = "debug"
		b.CacheDir = "/tmp/elsewhere"
		b.WatchDebounce = time.Second
		assert.Equal(t, a.Hash(), b.Hash())
	})
}
