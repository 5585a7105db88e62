// Package config loads settings for the calvin tools from defaults, an
// optional YAML file and CALVIN_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CALVIN_LOG_LEVEL.
const EnvPrefix = "CALVIN"

// Config is the full tool configuration.
type Config struct {
	Buffer struct {
		MaxBytes int `mapstructure:"max_bytes"`
	} `mapstructure:"buffer"`

	Log struct {
		Level      string `mapstructure:"level"`
		File       string `mapstructure:"file"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
	} `mapstructure:"log"`

	Dump struct {
		MaxRows int `mapstructure:"max_rows"`
	} `mapstructure:"dump"`

	MultiData struct {
		Group string `mapstructure:"group"`
	} `mapstructure:"multidata"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("buffer.max_bytes", 5242880)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("dump.max_rows", 20)
	v.SetDefault("multidata.group", "MultiData")
}

// Load reads the configuration. An empty path uses defaults and the
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
	if cfg.Buffer.MaxBytes <= 0 {
		return nil, fmt.Errorf("buffer.max_bytes must be positive, got %d", cfg.Buffer.MaxBytes)
	}
	return &cfg, nil
}

// Default returns the built-in defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}
