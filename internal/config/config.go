package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Store   StoreConfig   `yaml:"store"`
	Search  SearchConfig  `yaml:"search"`
	Log     LogConfig     `yaml:"log"`
}

// CatalogConfig holds catalog API configuration
type CatalogConfig struct {
	APIKey          string  `yaml:"api_key"`
	Endpoint        string  `yaml:"endpoint"`
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
}

// StoreConfig holds durable store settings
type StoreConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig holds search behavior settings
type SearchConfig struct {
	MinQueryLength int `yaml:"min_query_length"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	defaultEndpoint       = "https://www.omdbapi.com/"
	defaultTimeoutSeconds = 15
	defaultRateLimit      = 4
	defaultMinQueryLength = 3
)

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Expand ~ to home directory if present
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	// Read the config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate required fields
	if cfg.Catalog.APIKey == "" || cfg.Catalog.APIKey == "your_api_key_here" {
		return nil, fmt.Errorf("catalog API key is required. Get one from https://www.omdbapi.com/apikey.aspx")
	}

	if cfg.Catalog.Endpoint == "" {
		cfg.Catalog.Endpoint = defaultEndpoint
	}
	if cfg.Catalog.TimeoutSeconds <= 0 {
		cfg.Catalog.TimeoutSeconds = defaultTimeoutSeconds
	}
	if cfg.Catalog.RateLimitPerSec <= 0 {
		cfg.Catalog.RateLimitPerSec = defaultRateLimit
	}
	if cfg.Search.MinQueryLength <= 0 {
		cfg.Search.MinQueryLength = defaultMinQueryLength
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	if cfg.Store.Path == "" {
		return nil, fmt.Errorf("store path is required")
	}

	if cfg.Store.Path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.Store.Path = filepath.Join(home, cfg.Store.Path[1:])
	}

	// Ensure the store's parent directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return &cfg, nil
}
