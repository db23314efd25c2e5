package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"EXPLORER_API_URL", "EXPLORER_COUNTRY_FILE", "EXPLORER_DB", "EXPLORER_STATE_DIR", "EXPLORER_DARK_MODE"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "explorer", cfg.Name)
	assert.Equal(t, "country.yaml", cfg.Country.File)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.Equal(t, time.Duration(0), cfg.GetAPITimeout())
	assert.Equal(t, 150*time.Millisecond, cfg.GetResizeDebounce())
	assert.Equal(t, filepath.Join(".explorer", "reforms.db"), cfg.DatabasePath())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "explorer.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://api.example.org"
	cfg.API.Timeout = "20s"
	cfg.Logging.Categories = map[string]bool{"chart": true}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.org", loaded.API.BaseURL)
	assert.Equal(t, 20*time.Second, loaded.GetAPITimeout())
	assert.True(t, loaded.Logging.Categories["chart"])
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not, a, map"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("EXPLORER_API_URL", "http://localhost:5000")
	t.Setenv("EXPLORER_COUNTRY_FILE", "/etc/uk.yaml")
	t.Setenv("EXPLORER_DB", "/tmp/reforms.db")
	t.Setenv("EXPLORER_DARK_MODE", "1")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, "/etc/uk.yaml", cfg.Country.File)
	assert.Equal(t, "/tmp/reforms.db", cfg.DatabasePath())
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing country", func(c *Config) { c.Country.File = "" }},
		{"bad url", func(c *Config) { c.API.BaseURL = "ftp://x" }},
		{"relative url", func(c *Config) { c.API.BaseURL = "/age-chart" }},
		{"bad timeout", func(c *Config) { c.API.Timeout = "soon" }},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoggingSettings(t *testing.T) {
	lc := LoggingConfig{DebugMode: true, Format: "json", Level: "debug", Categories: map[string]bool{"ui": false}}
	s := lc.Settings()
	assert.True(t, s.JSONFormat)
	assert.True(t, lc.IsCategoryEnabled("chart"))
	assert.False(t, lc.IsCategoryEnabled("ui"))

	lc.DebugMode = false
	assert.False(t, lc.IsCategoryEnabled("chart"))
}
