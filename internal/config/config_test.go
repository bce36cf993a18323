package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/rcliao/eliza/internal/engine"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Script)
	assert.Equal(t, DefaultDBPath(), cfg.DB)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, engine.DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, "response", cfg.MemoryPolicy)
	assert.Equal(t, "auto", cfg.Color)
	assert.Equal(t, 4, cfg.ReplayWorkers)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".eliza.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
script: custom.yaml
max_depth: 8
memory_policy: first-keyword
color: never
replay_workers: 2
`), 0o644))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "custom.yaml", cfg.Script)
	assert.Equal(t, 8, cfg.MaxDepth)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, 2, cfg.ReplayWorkers)
	assert.Equal(t, engine.Options{MaxDepth: 8, MemoryPolicy: engine.MemoryOnFirstKeyword}, cfg.EngineOptions())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ELIZA_DB", "/tmp/elsewhere.db")
	t.Setenv("ELIZA_LOG_LEVEL", "info")

	cfg, err := Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.db", cfg.DB)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)
}

func TestVerboseForcesDebug(t *testing.T) {
	v := newViper()
	v.Set("verbose", true)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		c := Config{}
		applyDefaults(&c)
		return c
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid config", func(*Config) {}, ""},
		{"bad format", func(c *Config) { c.Format = "xml" }, "invalid format"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log_level"},
		{"bad depth", func(c *Config) { c.MaxDepth = -1 }, "invalid max_depth"},
		{"bad memory policy", func(c *Config) { c.MemoryPolicy = "always" }, "invalid memory_policy"},
		{"bad color", func(c *Config) { c.Color = "rainbow" }, "invalid color"},
		{"bad workers", func(c *Config) { c.ReplayWorkers = -2 }, "invalid replay_workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
