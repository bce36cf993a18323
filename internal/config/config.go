// Package config loads eliza settings from a config file, ELIZA_*
// environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/rcliao/eliza/internal/engine"
)

// EnvPrefix is the prefix of environment overrides, e.g. ELIZA_DB.
const EnvPrefix = "ELIZA"

// Config is the resolved eliza configuration.
type Config struct {
	Script        string `mapstructure:"script"`
	DB            string `mapstructure:"db"`
	Format        string `mapstructure:"format"`
	LogLevel      string `mapstructure:"log_level"`
	Verbose       bool   `mapstructure:"verbose"`
	MaxDepth      int    `mapstructure:"max_depth"`
	MemoryPolicy  string `mapstructure:"memory_policy"`
	Color         string `mapstructure:"color"`
	ReplayWorkers int    `mapstructure:"replay_workers"`
}

var (
	validFormats = map[string]bool{"text": true, "json": true}
	validColors  = map[string]bool{"auto": true, "always": true, "never": true}
)

// DefaultDBPath is ~/.eliza/sessions.db, or a relative path when the home
// directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".eliza", "sessions.db")
	}
	return filepath.Join(home, ".eliza", "sessions.db")
}

// SetDefaults registers every key with v so environment overrides apply
// even to keys without a flag.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("script", "")
	v.SetDefault("db", DefaultDBPath())
	v.SetDefault("format", "text")
	v.SetDefault("log_level", "warn")
	v.SetDefault("verbose", false)
	v.SetDefault("max_depth", engine.DefaultMaxDepth)
	v.SetDefault("memory_policy", string(engine.MemoryOnResponse))
	v.SetDefault("color", "auto")
	v.SetDefault("replay_workers", 4)
}

// Load unmarshals v into a Config, fills in defaults and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DB == "" {
		cfg.DB = DefaultDBPath()
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = engine.DefaultMaxDepth
	}
	if cfg.MemoryPolicy == "" {
		cfg.MemoryPolicy = string(engine.MemoryOnResponse)
	}
	if cfg.Color == "" {
		cfg.Color = "auto"
	}
	if cfg.ReplayWorkers == 0 {
		cfg.ReplayWorkers = 4
	}
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format: %s (must be text or json)", c.Format)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("invalid max_depth: %d (must be positive)", c.MaxDepth)
	}
	if !engine.ValidMemoryPolicies[engine.MemoryPolicy(c.MemoryPolicy)] {
		return fmt.Errorf("invalid memory_policy: %s (must be response or first-keyword)", c.MemoryPolicy)
	}
	if !validColors[c.Color] {
		return fmt.Errorf("invalid color: %s (must be auto, always or never)", c.Color)
	}
	if c.ReplayWorkers < 1 {
		return fmt.Errorf("invalid replay_workers: %d (must be positive)", c.ReplayWorkers)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("invalid log_level: %w", err)
	}
	return lvl, nil
}

// EngineOptions maps the engine settings onto engine.Options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		MaxDepth:     c.MaxDepth,
		MemoryPolicy: engine.MemoryPolicy(c.MemoryPolicy),
	}
}
