// Package config loads booksearch settings from ~/.booksearch/config.json
// with BOOKSEARCH_* environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BOOKSEARCH_SEARCH_PAGE_SIZE.
const EnvPrefix = "BOOKSEARCH"

// Config is the persistent application configuration
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog" json:"catalog"`
	Search   SearchConfig   `mapstructure:"search" json:"search"`
	Subjects SubjectsConfig `mapstructure:"subjects" json:"subjects"`
	History  HistoryConfig  `mapstructure:"history" json:"history"`
	Log      LogConfig      `mapstructure:"log" json:"log"`

	// DataDir holds history.db, events.jsonl and logs/. A leading ~/ is
	// expanded to the home directory.
	DataDir string `mapstructure:"data_dir" json:"data_dir"`
}

// CatalogConfig configures the Open Library client.
type CatalogConfig struct {
	BaseURL           string  `mapstructure:"base_url" json:"base_url"`
	UserAgent         string  `mapstructure:"user_agent" json:"user_agent,omitempty"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" json:"requests_per_second"`
	MaxRetries        int     `mapstructure:"max_retries" json:"max_retries"` // negative disables retries
}

// SearchConfig holds search view preferences.
type SearchConfig struct {
	PageSize       int `mapstructure:"page_size" json:"page_size"`
	DebounceMs     int `mapstructure:"debounce_ms" json:"debounce_ms"`
	MaxScrollMarks int `mapstructure:"max_scroll_marks" json:"max_scroll_marks"`
}

// SubjectsConfig holds the trending subject list.
type SubjectsConfig struct {
	Trending  []string `mapstructure:"trending" json:"trending"`
	WorkLimit int      `mapstructure:"work_limit" json:"work_limit"`
}

// HistoryConfig controls the search history store.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	Limit   int  `mapstructure:"limit" json:"limit"` // rows shown in the TUI
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level string `mapstructure:"level" json:"level"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:           "https://openlibrary.org",
			TimeoutSeconds:    10,
			RequestsPerSecond: 2,
			MaxRetries:        2,
		},
		Search: SearchConfig{
			PageSize:       10,
			DebounceMs:     300,
			MaxScrollMarks: 200,
		},
		Subjects: SubjectsConfig{
			Trending:  []string{"JavaScript", "CSS", "HTML", "Harry Potter", "Crypto"},
			WorkLimit: 10,
		},
		History: HistoryConfig{
			Enabled: true,
			Limit:   5,
		},
		Log: LogConfig{
			Level: "info",
		},
		DataDir: "~/.booksearch",
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".booksearch", "config.json")
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("catalog.base_url", c.Catalog.BaseURL)
	v.SetDefault("catalog.user_agent", c.Catalog.UserAgent)
	v.SetDefault("catalog.timeout_seconds", c.Catalog.TimeoutSeconds)
	v.SetDefault("catalog.requests_per_second", c.Catalog.RequestsPerSecond)
	v.SetDefault("catalog.max_retries", c.Catalog.MaxRetries)
	v.SetDefault("search.page_size", c.Search.PageSize)
	v.SetDefault("search.debounce_ms", c.Search.DebounceMs)
	v.SetDefault("search.max_scroll_marks", c.Search.MaxScrollMarks)
	v.SetDefault("subjects.trending", c.Subjects.Trending)
	v.SetDefault("subjects.work_limit", c.Subjects.WorkLimit)
	v.SetDefault("history.enabled", c.History.Enabled)
	v.SetDefault("history.limit", c.History.Limit)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("data_dir", c.DataDir)
}

// Load reads the config at path (ConfigPath when empty) over the defaults and
// applies BOOKSEARCH_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to path (ConfigPath when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate rejects settings the controllers cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Catalog.BaseURL == "" {
		errs = append(errs, errors.New("catalog.base_url is empty"))
	}
	if c.Catalog.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("catalog.timeout_seconds must be positive, got %d", c.Catalog.TimeoutSeconds))
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("catalog.requests_per_second must be positive, got %v", c.Catalog.RequestsPerSecond))
	}
	if c.Search.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("search.page_size must be positive, got %d", c.Search.PageSize))
	}
	if c.Search.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("search.debounce_ms must not be negative, got %d", c.Search.DebounceMs))
	}
	if c.Subjects.WorkLimit <= 0 {
		errs = append(errs, fmt.Errorf("subjects.work_limit must be positive, got %d", c.Subjects.WorkLimit))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Timeout is the catalog HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

// Debounce is the search input settle window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Search.DebounceMs) * time.Millisecond
}

// ResolvedDataDir returns DataDir with ~/ expanded.
func (c *Config) ResolvedDataDir() string {
	dir := c.DataDir
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
	return dir
}

// DataPath joins name onto the resolved data directory.
func (c *Config) DataPath(name string) string {
	return filepath.Join(c.ResolvedDataDir(), name)
}
