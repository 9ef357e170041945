// Package config loads engine configuration from file and environment.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the runtime settings for the engine and CLI.
type Config struct {
	// DBPath overrides the default SQLite database location.
	DBPath string `mapstructure:"db_path"`

	// LogMode selects the logger encoder ("dev" or "prod").
	LogMode string `mapstructure:"log_mode"`

	// SweepIntervalHours is how often the decay sweep runs.
	SweepIntervalHours int `mapstructure:"sweep_interval_hours"`

	// SpacedRepetitionSubjects overrides the set of subject ids that
	// receive review items. Empty keeps the built-in catalog flags.
	SpacedRepetitionSubjects []string `mapstructure:"spaced_repetition_subjects"`
}

// Load reads plugga.yaml from path (or the working directory and
// $HOME/.config/plugga when path is empty) plus PLUGGA_* environment
// variables. A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("plugga")
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/plugga")
	}

	v.SetEnvPrefix("PLUGGA")
	v.AutomaticEnv()

	v.SetDefault("log_mode", "dev")
	v.SetDefault("sweep_interval_hours", 6)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.SweepIntervalHours <= 0 {
		cfg.SweepIntervalHours = 6
	}
	return &cfg, nil
}
