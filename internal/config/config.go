// Package config provides configuration management for the tracker.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"stock-tracker/internal/models"
)

// Config holds all application configuration. The core treats this purely
// as input; how it is loaded is the CLI's concern.
type Config struct {
	Symbols     []string              `mapstructure:"symbols"`
	SymbolNames map[string]string     `mapstructure:"symbol_names"`
	APIKey      string                `mapstructure:"api_key"`
	Cache       CacheConfig           `mapstructure:"cache"`
	Fetch       FetchConfig           `mapstructure:"fetch"`
	Strategy    models.StrategyConfig `mapstructure:"strategy"`
	Log         LogConfig             `mapstructure:"log"`
}

// CacheConfig holds the expiring-cache settings.
type CacheConfig struct {
	ExpiryHours int    `mapstructure:"expiry_hours"`
	Path        string `mapstructure:"path"`
}

// TTL returns the cache time-to-live as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

// FetchConfig holds the upstream retry settings.
type FetchConfig struct {
	MaxRetries int `mapstructure:"max_retries"`
	RetryDelay int `mapstructure:"retry_delay_seconds"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stock-tracker"
	}
	return filepath.Join(home, ".config", "stock-tracker")
}

// Load loads config.yaml from the specified directory, applying defaults
// and environment overrides. If configDir is empty the default directory
// is used; a missing file yields the default configuration.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.yaml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.yaml: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.Strategy = cfg.Strategy.Normalized()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("symbols", []string{"TSLA", "AAPL", "NVDA"})
	v.SetDefault("cache.expiry_hours", 4)
	v.SetDefault("cache.path", filepath.Join(DefaultConfigDir(), "cache.db"))
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.retry_delay_seconds", 10)
	v.SetDefault("strategy.rsi_threshold", 30.0)
	v.SetDefault("strategy.price_position_threshold", 33.0)
	v.SetDefault("strategy.ma_proximity_threshold", 0.05)
	v.SetDefault("strategy.anomaly_threshold", 0.15)
	v.SetDefault("log.level", "info")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.APIKey = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Cache.ExpiryHours < 0 {
		return fmt.Errorf("cache.expiry_hours must be non-negative")
	}
	if c.Fetch.MaxRetries < 1 {
		return fmt.Errorf("fetch.max_retries must be at least 1")
	}
	if c.Fetch.RetryDelay < 0 {
		return fmt.Errorf("fetch.retry_delay_seconds must be non-negative")
	}
	if c.Strategy.RSIThreshold < 0 || c.Strategy.RSIThreshold > 100 {
		return fmt.Errorf("strategy.rsi_threshold must be between 0 and 100")
	}
	if c.Strategy.PricePositionThreshold < 0 || c.Strategy.PricePositionThreshold > 100 {
		return fmt.Errorf("strategy.price_position_threshold must be between 0 and 100")
	}
	if c.Strategy.MAProximityThreshold < 0 {
		return fmt.Errorf("strategy.ma_proximity_threshold must be non-negative")
	}
	return nil
}

// DisplayName returns the configured display name for a symbol, or the
// symbol itself when none is configured.
func (c *Config) DisplayName(symbol string) string {
	if name, ok := c.SymbolNames[symbol]; ok {
		return name
	}
	return symbol
}
