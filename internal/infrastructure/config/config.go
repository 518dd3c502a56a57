// Package config loads server configuration from a YAML file, environment
// variables, and flags, in that order of discovery.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// EnvAPIKey is the environment variable consulted for the FRED API key.
	EnvAPIKey = "FRED_API_KEY"

	dateLayout = "2006-01-02"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	FRED     FREDConfig     `mapstructure:"fred"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Scenario ScenarioConfig `mapstructure:"scenario"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// FREDConfig holds settings for the upstream FRED API.
type FREDConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	APIKeyFile   string        `mapstructure:"api_key_file"`
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	LookbackDays int           `mapstructure:"lookback_days"`
	RecentWindow int           `mapstructure:"recent_window"`
}

// CacheConfig holds observation cache settings. An empty BadgerPath selects
// the in-memory cache.
type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	HistoricalTTL time.Duration `mapstructure:"historical_ttl"`
	LatestTTL     time.Duration `mapstructure:"latest_ttl"`
	BadgerPath    string        `mapstructure:"badger_path"`
}

// ScenarioConfig holds cost scenario defaults.
type ScenarioConfig struct {
	ReferenceDate string `mapstructure:"reference_date"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the given file (optional), environment
// variables prefixed with REFI, and built-in defaults. flagAPIKey is the
// value of the --api-key flag, used only when no file or environment key
// is available.
func Load(configFile, flagAPIKey string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("REFI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine, an unreadable explicit one is not
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.resolveAPIKey(flagAPIKey); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveAPIKey fills FRED.APIKey from the first available source: a key
// file, the FRED_API_KEY environment variable, then the --api-key flag.
// A key already present in the config file is kept only when all three
// sources are empty.
func (c *Config) resolveAPIKey(flagAPIKey string) error {
	if c.FRED.APIKeyFile != "" {
		data, err := os.ReadFile(c.FRED.APIKeyFile)
		if err != nil {
			return fmt.Errorf("reading api key file %s: %w", c.FRED.APIKeyFile, err)
		}
		if key := strings.TrimSpace(string(data)); key != "" {
			c.FRED.APIKey = key
			return nil
		}
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		c.FRED.APIKey = key
		return nil
	}

	if flagAPIKey != "" {
		c.FRED.APIKey = flagAPIKey
	}
	return nil
}

// Validate checks configuration values that cannot be defaulted away.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.FRED.LookbackDays <= 0 {
		return fmt.Errorf("fred.lookback_days must be positive, got %d", c.FRED.LookbackDays)
	}
	if c.FRED.RecentWindow <= 0 {
		return fmt.Errorf("fred.recent_window must be positive, got %d", c.FRED.RecentWindow)
	}
	if c.FRED.Timeout <= 0 {
		return fmt.Errorf("fred.timeout must be positive, got %s", c.FRED.Timeout)
	}
	if _, err := c.ReferenceTime(); err != nil {
		return err
	}
	return nil
}

// ReferenceTime parses the configured scenario reference date.
func (c *Config) ReferenceTime() (time.Time, error) {
	t, err := time.Parse(dateLayout, c.Scenario.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("scenario.reference_date %q is not a YYYY-MM-DD date", c.Scenario.ReferenceDate)
	}
	return t, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("fred.base_url", "")
	v.SetDefault("fred.timeout", "10s")
	v.SetDefault("fred.lookback_days", 7)
	v.SetDefault("fred.recent_window", 30)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.historical_ttl", "1h")
	v.SetDefault("cache.latest_ttl", "15m")
	v.SetDefault("cache.badger_path", "")

	v.SetDefault("scenario.reference_date", "2025-04-01")

	v.SetDefault("log.level", "info")
}
