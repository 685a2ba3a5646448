// Package config loads runtime configuration for gantry from the
// config file, environment, and CLI flags via viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for a gantry invocation.
// Values are populated from .gantry.yaml, GANTRY_* env vars, and CLI flags.
type Config struct {
	Resources     int    `mapstructure:"resources"`      // default pool size when the project declares none
	Policy        string `mapstructure:"policy"`         // task selection heuristic
	Placement     string `mapstructure:"placement"`      // resource placement rule
	HistoryPath   string `mapstructure:"history_path"`   // sqlite run-history database
	NoHistory     bool   `mapstructure:"no_history"`     // skip recording runs
	TelemetryPath string `mapstructure:"telemetry_path"` // JSONL decision log; empty disables it
	NoColor       bool   `mapstructure:"no_color"`
}

// Load reads configuration from viper, applying built-in defaults for
// any values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("resources", 2)
	viper.SetDefault("policy", "longest")
	viper.SetDefault("placement", "earliest")
	viper.SetDefault("history_path", ".gantry/history.db")
	viper.SetDefault("no_history", false)
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("no_color", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}
