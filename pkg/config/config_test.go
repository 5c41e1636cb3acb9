package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValidReference(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	m, err := cfg.Matrix()
	require.NoError(t, err)
	assert.Equal(t, chain.Reference().Probabilities(), m.Probabilities())
	assert.InDelta(t, 4.0, cfg.TicksPerSecond(), 1e-12)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "clock.yaml", `
weights:
  - [1, 14, 0, 1]
  - [2, 1, 13, 0]
  - [0, 2, 0, 14]
  - [14, 1, 1, 0]
normalizer: 16
tick_rate: 125ms
exponent: 500
seed: 42
redis:
  addr: localhost:6379
  counters_ttl: 1h
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 125*time.Millisecond, cfg.TickRate)
	assert.Equal(t, 500, cfg.Exponent)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(42), *cfg.Seed)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.CountersTTL)
	assert.Equal(t, "stochclock:events", cfg.Redis.Channel, "unset fields keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8.0, cfg.TicksPerSecond())

	m, err := cfg.Matrix()
	require.NoError(t, err)
	assert.Equal(t, chain.LegacyWeights, [4][4]float64(m.Weights()))
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "clock.json", `{"preset": "legacy", "exponent": 2000, "tolerance": 1e-8}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, chain.PresetLegacy, cfg.Preset)
	assert.Equal(t, 2000, cfg.Exponent)
	assert.Equal(t, 1e-8, cfg.Tolerance)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "clock.yaml", "tick_rte: 1s\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"STOCHCLOCK_SEED":       "7",
		"STOCHCLOCK_TICK_RATE":  "1s",
		"STOCHCLOCK_REDIS_ADDR": "redis:6379",
		"STOCHCLOCK_PRESET":     "legacy",
	}
	cfg := Default()
	cfg.Weights = [][]float64{{1}}
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(7), *cfg.Seed)
	assert.Equal(t, time.Second, cfg.TickRate)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "legacy", cfg.Preset)
	assert.Nil(t, cfg.Weights, "a preset from the environment replaces file weights")
}

func TestApplyEnv_BadValues(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) string {
		if k == "STOCHCLOCK_SEED" {
			return "-1"
		}
		return ""
	})
	assert.Error(t, err)

	cfg = Default()
	err = cfg.ApplyEnv(func(k string) string {
		if k == "STOCHCLOCK_TICK_RATE" {
			return "fast"
		}
		return ""
	})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }, "tick_rate"},
		{"zero exponent", func(c *Config) { c.Exponent = 0 }, "exponent"},
		{"negative tolerance", func(c *Config) { c.Tolerance = -1 }, "tolerance"},
		{"negative windows", func(c *Config) { c.MinuteWindows = -1 }, "minute_windows"},
		{"unknown preset", func(c *Config) { c.Preset = "sundial" }, "preset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var cerr *domain.ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestMatrix_ShapeErrors(t *testing.T) {
	cfg := Default()
	cfg.Weights = [][]float64{{1, 1, 1, 1}}
	_, err := cfg.Matrix()
	assert.ErrorIs(t, err, domain.ErrConfig)

	cfg.Weights = [][]float64{{16}, {16}, {16}, {16}}
	_, err = cfg.Matrix()
	assert.ErrorIs(t, err, domain.ErrConfig)

	cfg.Weights = [][]float64{{16, 0, 0, 0}, {16, 0, 0, 0}, {16, 0, 0, 0}, {15, 0, 0, 0}}
	_, err = cfg.Matrix()
	assert.ErrorIs(t, err, domain.ErrConfig, "row 3 does not sum to the normalizer")
}

func TestSource_SeededIsReproducible(t *testing.T) {
	seed := uint64(99)
	cfg := Default()
	cfg.Seed = &seed

	a, b := cfg.Source(), cfg.Source()
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "STOCHCLOCK_TEST_DOTENV=hello\n")
	t.Setenv("STOCHCLOCK_TEST_DOTENV", "")
	os.Unsetenv("STOCHCLOCK_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, "hello", os.Getenv("STOCHCLOCK_TEST_DOTENV"))
}
