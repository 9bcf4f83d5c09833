// Package config loads tabula settings from a YAML file and TABULA_*
// environment variables through viper.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/roach88/tabula/internal/database"
)

// EnvPrefix prefixes every environment override, e.g. TABULA_RETRY_ATTEMPTS.
const EnvPrefix = "TABULA"

// Config holds the settings shared by every command.
type Config struct {
	Driver   string `mapstructure:"driver"`
	Location string `mapstructure:"location"`

	Retry struct {
		Attempts int           `mapstructure:"attempts"`
		Delay    time.Duration `mapstructure:"delay"`
	} `mapstructure:"retry"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// Load reads the config file at path, applies environment overrides and
// fills the rest with defaults. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("driver", "sqlite")
	v.SetDefault("location", "tabula.db")
	v.SetDefault("retry.attempts", database.DefaultRetryPolicy.Attempts)
	v.SetDefault("retry.delay", database.DefaultRetryPolicy.Delay)
	v.SetDefault("log.level", "info")
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Driver == "" {
		return fmt.Errorf("invalid config: driver must not be empty")
	}
	if c.Location == "" {
		return fmt.Errorf("invalid config: location must not be empty")
	}
	if err := c.RetryPolicy().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RetryPolicy returns the configured write retry policy.
func (c *Config) RetryPolicy() database.RetryPolicy {
	return database.RetryPolicy{
		Attempts: c.Retry.Attempts,
		Delay:    c.Retry.Delay,
	}
}

// LogLevel parses the configured log level (debug, info, warn, error).
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
