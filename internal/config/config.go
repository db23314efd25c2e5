package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all explorer configuration.
type Config struct {
	Name string `yaml:"name"`

	// StateDir holds logs and the saved reform database.
	StateDir string `yaml:"state_dir"`

	Country CountryConfig `yaml:"country"`
	API     APIConfig     `yaml:"api"`
	UI      UIConfig      `yaml:"ui"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// CountryConfig selects the country configuration file.
type CountryConfig struct {
	File  string `yaml:"file"`
	Watch bool   `yaml:"watch"` // reload when the file changes
}

// APIConfig configures the simulation API. BaseURL overrides the country
// file's api_url when set.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"` // empty = transport default
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	Theme          string `yaml:"theme"` // auto, light, dark
	ChartExpanded  bool   `yaml:"chart_expanded"`
	ResizeDebounce string `yaml:"resize_debounce"`
}

// StoreConfig configures the saved reform database.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"` // relative paths live under state_dir
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:     "explorer",
		StateDir: ".explorer",
		Country: CountryConfig{
			File:  "country.yaml",
			Watch: true,
		},
		API: APIConfig{},
		UI: UIConfig{
			Theme:          "auto",
			ResizeDebounce: "150ms",
		},
		Store: StoreConfig{
			DatabasePath: "reforms.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("EXPLORER_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("EXPLORER_COUNTRY_FILE"); v != "" {
		c.Country.File = v
	}
	if v := os.Getenv("EXPLORER_DB"); v != "" {
		c.Store.DatabasePath = v
	}
	if v := os.Getenv("EXPLORER_STATE_DIR"); v != "" {
		c.StateDir = v
	}
	if os.Getenv("EXPLORER_DARK_MODE") == "1" {
		c.UI.Theme = "dark"
	}
}

// ValidThemes lists the accepted ui.theme values.
var ValidThemes = []string{"auto", "light", "dark"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Country.File == "" {
		return fmt.Errorf("country file not configured (set country.file or EXPLORER_COUNTRY_FILE)")
	}
	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid api.base_url %q: want an http(s) URL", c.API.BaseURL)
		}
	}
	if c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			return fmt.Errorf("invalid api.timeout %q: %w", c.API.Timeout, err)
		}
	}

	validTheme := false
	for _, t := range ValidThemes {
		if c.UI.Theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid ui.theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}
	return nil
}

// GetAPITimeout returns the API timeout; zero means no explicit timeout.
func (c *Config) GetAPITimeout() time.Duration {
	if c.API.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// GetResizeDebounce returns the resize debounce duration.
func (c *Config) GetResizeDebounce() time.Duration {
	d, err := time.ParseDuration(c.UI.ResizeDebounce)
	if err != nil || d < 0 {
		return 150 * time.Millisecond
	}
	return d
}

// DatabasePath resolves the saved reform database location.
func (c *Config) DatabasePath() string {
	p := c.Store.DatabasePath
	if p == "" || p == ":memory:" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.StateDir, p)
}
