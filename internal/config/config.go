// Package config loads bipstage settings from a YAML file, BIPSTAGE_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the bipstage configuration.
type Config struct {
	Buffer   BufferConfig   `mapstructure:"buffer"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Simulate SimulateConfig `mapstructure:"simulate"`
}

// BufferConfig sizes the staging buffer.
type BufferConfig struct {
	Capacity int `mapstructure:"capacity"` // elements of backing storage
	Chunk    int `mapstructure:"chunk"`    // largest single reservation
}

// LogConfig selects the zap logger setup.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console, json
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the endpoint
}

// SimulateConfig drives the randomized workload.
type SimulateConfig struct {
	Steps int   `mapstructure:"steps"`
	Seed  int64 `mapstructure:"seed"`
}

// Loader handles configuration loading and validation
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BIPSTAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return &Loader{v: v}
}

// Viper exposes the underlying instance so callers can bind flags to keys.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load reads the config file at path, if any, and returns the validated result.
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Load reads configuration from path and the environment without flag bindings.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("buffer.capacity", 64*1024)
	v.SetDefault("buffer.chunk", 4*1024)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("simulate.steps", 100000)
	v.SetDefault("simulate.seed", 1)
}

// Validate checks value ranges.
func Validate(cfg *Config) error {
	if cfg.Buffer.Capacity <= 0 {
		return errors.New("buffer.capacity must be positive")
	}
	if cfg.Buffer.Chunk <= 0 || cfg.Buffer.Chunk > cfg.Buffer.Capacity {
		return fmt.Errorf("buffer.chunk must be in (0, %d]", cfg.Buffer.Capacity)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log.format %q", cfg.Log.Format)
	}

	if cfg.Simulate.Steps <= 0 {
		return errors.New("simulate.steps must be positive")
	}
	return nil
}
