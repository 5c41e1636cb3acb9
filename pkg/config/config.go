package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/domain"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the clock.
type Config struct {
	// Preset names a built-in weight set. Ignored when Weights is set.
	Preset     string      `mapstructure:"preset" json:"preset"`
	Weights    [][]float64 `mapstructure:"weights" json:"weights,omitempty"`
	Normalizer float64     `mapstructure:"normalizer" json:"normalizer"`

	TickRate  time.Duration `mapstructure:"tick_rate" json:"tick_rate"`
	Exponent  int           `mapstructure:"exponent" json:"exponent"`
	Tolerance float64       `mapstructure:"tolerance" json:"tolerance"`

	// Seed makes runs reproducible. Nil seeds from runtime entropy.
	Seed *uint64 `mapstructure:"seed" json:"seed,omitempty"`

	MinuteWindows int `mapstructure:"minute_windows" json:"minute_windows"`

	Redis RedisConfig `mapstructure:"redis" json:"redis"`
	HTTP  HTTPConfig  `mapstructure:"http" json:"http"`
	Log   LogConfig   `mapstructure:"log" json:"log"`
}

// RedisConfig enables the pub/sub publisher when Addr is set.
type RedisConfig struct {
	Addr        string        `mapstructure:"addr" json:"addr"`
	Password    string        `mapstructure:"password" json:"-"`
	DB          int           `mapstructure:"db" json:"db"`
	Channel     string        `mapstructure:"channel" json:"channel"`
	CountersTTL time.Duration `mapstructure:"counters_ttl" json:"counters_ttl"`
	// Timeout bounds each publish so a slow server cannot stall the tick.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
	// BestEffort logs publish failures instead of stopping the clock.
	BestEffort bool `mapstructure:"best_effort" json:"best_effort"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" json:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Preset:        chain.PresetReference,
		Normalizer:    chain.ReferenceNormalizer,
		TickRate:      250 * time.Millisecond,
		Exponent:      chain.DefaultExponent,
		Tolerance:     chain.DefaultTolerance,
		MinuteWindows: 20,
		Redis:         RedisConfig{Channel: "stochclock:events", Timeout: time.Second},
		HTTP:          HTTPConfig{Addr: ":8080"},
		Log:           LogConfig{Level: "info", Format: "text"},
	}
}

// Load layers the file at path over Default and applies the environment.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := readFile(path)
		if err != nil {
			return cfg, err
		}
		if err := decode(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return raw, nil
	}
	// Default to YAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return raw, nil
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      cfg,
		ErrorUnused: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// LoadDotEnv reads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from STOCHCLOCK_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("STOCHCLOCK_PRESET"); v != "" {
		c.Preset = v
		c.Weights = nil
	}
	if v := getenv("STOCHCLOCK_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("STOCHCLOCK_SEED: %w", err)
		}
		c.Seed = &seed
	}
	if v := getenv("STOCHCLOCK_TICK_RATE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STOCHCLOCK_TICK_RATE: %w", err)
		}
		c.TickRate = d
	}
	if v := getenv("STOCHCLOCK_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := getenv("STOCHCLOCK_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := getenv("STOCHCLOCK_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := getenv("STOCHCLOCK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks the scalar settings. The matrix itself is checked by Matrix.
func (c Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return &domain.ConfigError{Field: "tick_rate", Reason: "must be positive"}
	case c.Exponent < 1:
		return &domain.ConfigError{Field: "exponent", Reason: "must be at least 1"}
	case c.Tolerance <= 0:
		return &domain.ConfigError{Field: "tolerance", Reason: "must be positive"}
	case c.MinuteWindows < 0:
		return &domain.ConfigError{Field: "minute_windows", Reason: "must not be negative"}
	case c.Redis.Timeout < 0:
		return &domain.ConfigError{Field: "redis.timeout", Reason: "must not be negative"}
	}
	if len(c.Weights) == 0 {
		if _, err := chain.Preset(c.Preset); err != nil {
			return &domain.ConfigError{Field: "preset", Reason: err.Error()}
		}
	}
	return nil
}

// Matrix builds the transition matrix from Weights, or from Preset when no
// weights are given.
func (c Config) Matrix() (*chain.Matrix, error) {
	if len(c.Weights) == 0 {
		w, err := chain.Preset(c.Preset)
		if err != nil {
			return nil, &domain.ConfigError{Field: "preset", Reason: err.Error()}
		}
		return chain.NewMatrix(w, c.Normalizer)
	}

	if len(c.Weights) != domain.NumStates {
		return nil, &domain.ConfigError{Field: "weights", Reason: fmt.Sprintf("need %d rows, got %d", domain.NumStates, len(c.Weights))}
	}
	var w [domain.NumStates][domain.NumStates]float64
	for i, row := range c.Weights {
		if len(row) != domain.NumStates {
			return nil, &domain.ConfigError{Field: fmt.Sprintf("row %d", i), Reason: fmt.Sprintf("need %d weights, got %d", domain.NumStates, len(row))}
		}
		copy(w[i][:], row)
	}
	return chain.NewMatrix(w, c.Normalizer)
}

// TicksPerSecond is the sampling rate implied by TickRate.
func (c Config) TicksPerSecond() float64 {
	if c.TickRate <= 0 {
		return chain.DefaultTicksPerSecond
	}
	return float64(time.Second) / float64(c.TickRate)
}

// Source returns the configured random source.
func (c Config) Source() chain.Source {
	if c.Seed != nil {
		return chain.NewSeededSource(*c.Seed)
	}
	return chain.NewSource()
}
