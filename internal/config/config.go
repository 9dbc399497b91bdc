// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// IDFormat selects how rule identifiers are rendered at the store boundary.
// It replaces the process-wide serialization toggle of the legacy system:
// the value is passed explicitly wherever identifiers are encoded.
type IDFormat string

const (
	// IDFormatCanonical renders UUIDs with dashes (default).
	IDFormatCanonical IDFormat = "canonical"
	// IDFormatCompact renders UUIDs as 32 hex characters.
	IDFormatCompact IDFormat = "compact"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Store struct {
		Path     string `mapstructure:"path" yaml:"path"`
		IDFormat string `mapstructure:"id_format" yaml:"id_format"`
	} `mapstructure:"store" yaml:"store"`

	Quota struct {
		// MonthlyLimit caps successful parses per user per UTC calendar
		// month. Zero means unlimited.
		MonthlyLimit int `mapstructure:"monthly_limit" yaml:"monthly_limit"`
	} `mapstructure:"quota" yaml:"quota"`

	Parser struct {
		// MaxSkipRatio is the fraction of undecodable transaction rows
		// tolerated before the whole parse fails.
		MaxSkipRatio float64 `mapstructure:"max_skip_ratio" yaml:"max_skip_ratio"`
	} `mapstructure:"parser" yaml:"parser"`

	Batch struct {
		Workers int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"batch" yaml:"batch"`

	Seed struct {
		RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
	} `mapstructure:"seed" yaml:"seed"`
}

// RuleIDFormat returns the configured identifier format, defaulting to
// canonical for unknown values.
func (c *Config) RuleIDFormat() IDFormat {
	if IDFormat(c.Store.IDFormat) == IDFormatCompact {
		return IDFormatCompact
	}
	return IDFormatCanonical
}

// Load initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then STMT_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.statement-core")
	v.AddConfigPath(".statement-core")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STMT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
		// No config file is fine; defaults and env vars apply.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("store.path", "statement-core.db")
	v.SetDefault("store.id_format", string(IDFormatCanonical))

	v.SetDefault("quota.monthly_limit", 0)

	v.SetDefault("parser.max_skip_ratio", 0.5)

	v.SetDefault("batch.workers", 4)

	v.SetDefault("seed.rules_file", "bank-rules.yaml")
}

func validate(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch IDFormat(config.Store.IDFormat) {
	case IDFormatCanonical, IDFormatCompact:
	default:
		return fmt.Errorf("invalid store.id_format: %s (must be 'canonical' or 'compact')", config.Store.IDFormat)
	}

	if config.Quota.MonthlyLimit < 0 {
		return fmt.Errorf("quota.monthly_limit must not be negative, got: %d", config.Quota.MonthlyLimit)
	}

	if config.Parser.MaxSkipRatio < 0 || config.Parser.MaxSkipRatio > 1 {
		return fmt.Errorf("parser.max_skip_ratio must be between 0.0 and 1.0, got: %f", config.Parser.MaxSkipRatio)
	}

	if config.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1, got: %d", config.Batch.Workers)
	}

	return nil
}
