package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Storage
	StoreBackend string `yaml:"store_backend"`
	KeyPrefix    string `yaml:"key_prefix"`

	// Retrieval
	RetrieveDelayMS   int    `yaml:"retrieve_delay_ms"`
	OpenAfterRetrieve bool   `yaml:"open_after_retrieve"`
	ImageViewer       string `yaml:"image_viewer"`

	// Sharing
	CopyToClipboard bool `yaml:"copy_to_clipboard"`
	WatchDebounceMS int  `yaml:"watch_debounce_ms"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// UI Settings
	ColorTheme string `yaml:"color_theme"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		StoreBackend:      "file",
		KeyPrefix:         "pixelperfect",
		RetrieveDelayMS:   500,
		OpenAfterRetrieve: false,
		ImageViewer:       "",
		CopyToClipboard:   true,
		WatchDebounceMS:   300,
		LogLevel:          "info",
		LogFile:           "",
		ColorTheme:        "auto",
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	if !isValidBackend(cfg.StoreBackend) {
		cfg.StoreBackend = "file"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "pixelperfect"
	}
	if cfg.RetrieveDelayMS < 0 {
		cfg.RetrieveDelayMS = 0
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 300
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ColorTheme == "" {
		cfg.ColorTheme = "auto"
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
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
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// RetrieveDelay returns the cosmetic retrieval delay
func (c *Config) RetrieveDelay() time.Duration {
	return time.Duration(c.RetrieveDelayMS) * time.Millisecond
}

// WatchDebounce returns the delay before a newly written file is shared
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

func isValidBackend(backend string) bool {
	validBackends := []string{"file", "sqlite"}
	for _, valid := range validBackends {
		if backend == valid {
			return true
		}
	}
	return false
}
