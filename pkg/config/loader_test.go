package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionguard/pkg/config"
)

type defaultsConfig struct {
	Prefix   string        `env:"TEST_CFG_PREFIX" envDefault:"session"`
	Duration time.Duration `env:"TEST_CFG_DURATION" envDefault:"1h"`
	Secure   bool          `env:"TEST_CFG_SECURE" envDefault:"true"`
}

type overrideConfig struct {
	Threshold float64       `env:"TEST_CFG_THRESHOLD" envDefault:"1.5"`
	Grace     time.Duration `env:"TEST_CFG_GRACE" envDefault:"30s"`
}

type requiredConfig struct {
	Secret string `env:"TEST_CFG_SECRET,required"`
}

type fileConfig struct {
	Login   string   `env:"TEST_CFG_LOGIN_URL"`
	Secrets []string `env:"TEST_CFG_SECRETS" envSeparator:","`
}

func TestLoad_Defaults(t *testing.T) {
	config.ResetCache()

	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "session", cfg.Prefix)
	assert.Equal(t, time.Hour, cfg.Duration)
	assert.True(t, cfg.Secure)
}

func TestLoad_Environment(t *testing.T) {
	config.ResetCache()
	t.Setenv("TEST_CFG_THRESHOLD", "2.5")
	t.Setenv("TEST_CFG_GRACE", "1m")

	var cfg overrideConfig
	require.NoError(t, config.Load(&cfg))
	assert.InDelta(t, 2.5, cfg.Threshold, 1e-9)
	assert.Equal(t, time.Minute, cfg.Grace)
}

func TestLoad_Cached(t *testing.T) {
	config.ResetCache()
	t.Setenv("TEST_CFG_PREFIX", "first")

	var first defaultsConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("TEST_CFG_PREFIX", "second")
	var second defaultsConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Prefix)

	config.ResetCache()
	var third defaultsConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second", third.Prefix)
}

func TestLoad_Required(t *testing.T) {
	config.ResetCache()

	var cfg requiredConfig
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
	assert.Panics(t, func() { config.MustLoad(&cfg) })

	t.Setenv("TEST_CFG_SECRET", "s3cr3t")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "s3cr3t", cfg.Secret)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *defaultsConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestLoadEnv(t *testing.T) {
	config.ResetCache()
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.test")
	require.NoError(t, os.WriteFile(path, []byte(
		"TEST_CFG_LOGIN_URL=/signin\nTEST_CFG_SECRETS=\"one,two\"\n",
	), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("TEST_CFG_LOGIN_URL")
		os.Unsetenv("TEST_CFG_SECRETS")
	})

	require.NoError(t, config.LoadEnv(path))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "/signin", cfg.Login)
	assert.Equal(t, []string{"one", "two"}, cfg.Secrets)
}

func TestLoadEnv_MissingFile(t *testing.T) {
	err := config.LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}
