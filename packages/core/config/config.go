package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the hitverb configuration
type Config struct {
	Timeout         time.Duration     `mapstructure:"timeout"` // default for requests without --max-time
	Insecure        bool              `mapstructure:"insecure"`
	Proxy           string            `mapstructure:"proxy"`
	Headers         map[string]string `mapstructure:"headers"` // default headers for all requests
	UserAgent       string            `mapstructure:"user_agent"`
	FollowRedirects bool              `mapstructure:"follow_redirects"`
	MaxRedirects    int               `mapstructure:"max_redirects"`
	Output          string            `mapstructure:"output"` // console, json or yaml
	NoColor         bool              `mapstructure:"no_color"`
	EnvFile         string            `mapstructure:"env_file"`
	Log             LogConfig         `mapstructure:"log"`
}

// LogConfig captures logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// ConfigName is the base name of the config file searched in the working
// and home directories.
const ConfigName = ".hitverb"

// EnvPrefix prefixes environment overrides, e.g. HITVERB_TIMEOUT.
const EnvPrefix = "HITVERB"

// LoadConfig reads configuration from path, or searches for .hitverb.yaml in
// the current and home directories when path is empty. Environment variables
// override file values. A missing config file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check on its own.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("invalid config: timeout must not be negative, got %s", c.Timeout)
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("invalid config: max_redirects must not be negative, got %d", c.MaxRedirects)
	}
	switch strings.ToLower(c.Output) {
	case "console", "json", "yaml":
	default:
		return fmt.Errorf("invalid config: output must be console, json or yaml, got %q", c.Output)
	}
	return nil
}
