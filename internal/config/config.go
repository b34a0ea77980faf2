// Package config loads service configuration from flags, an optional config
// file and ALLERGY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load
const EnvPrefix = "ALLERGY"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Dataset DatasetConfig `mapstructure:"dataset"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	CORSOrigin      string        `mapstructure:"cors_origin"`
	RateLimit       int           `mapstructure:"rate_limit"` // requests per minute per IP, 0 disables
	RateBurst       int           `mapstructure:"rate_burst"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatasetConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`  // DEBUG, INFO, WARN, ERROR
	Format    string `mapstructure:"format"` // text, json
	SeqURL    string `mapstructure:"seq_url"`
	AddSource bool   `mapstructure:"add_source"`
}

// SetDefaults registers every key with its default value.
// Keys must be known to viper for AutomaticEnv to apply during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.rate_limit", 600)
	v.SetDefault("server.rate_burst", 60)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("dataset.path", "data/allergy_data_cleaned.xlsx")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.seq_url", "")
	v.SetDefault("log.add_source", false)
}

// Load reads configuration into a Config.
// Precedence: flags bound on v, environment (ALLERGY_SERVER_ADDR ->
// server.addr), config file, defaults. An explicit configFile must exist;
// otherwise ./allergy.{yaml,json,toml} is read if present.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("allergy")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Log.Level = strings.ToUpper(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values Load cannot default
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if strings.TrimSpace(c.Dataset.Path) == "" {
		return fmt.Errorf("dataset.path must not be empty")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("server.rate_limit and server.rate_burst must be >= 0")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst == 0 {
		return fmt.Errorf("server.rate_burst must be > 0 when rate limiting is enabled")
	}
	switch c.Log.Level {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("log.level %q is not one of DEBUG, INFO, WARN, ERROR", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q is not one of text, json", c.Log.Format)
	}
	return nil
}
