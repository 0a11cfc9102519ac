// Package config holds the numerical parameters of curve construction and the ambient
// logging and metrics switches, loaded from a YAML file and RATECURVE_ environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full configuration tree.
type Config struct {
	Bootstrap BootstrapConfig `mapstructure:"bootstrap" yaml:"bootstrap"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"   yaml:"metrics"`
}

// BootstrapConfig holds solver parameters. A bootstrap option left at zero takes its
// value from here.
type BootstrapConfig struct {
	// Accuracy is the iterative bootstrap's root-finder tolerance on node values. A pass
	// that moves no node by more than this ends the iteration.
	Accuracy float64 `mapstructure:"accuracy" yaml:"accuracy"`

	// LocalAccuracy is the tolerance of the local bootstrap. It is looser than Accuracy
	// because each pillar is solved once, without a global pass.
	LocalAccuracy float64 `mapstructure:"local_accuracy" yaml:"local_accuracy"`

	// MaxPasses bounds the global re-iteration of the iterative bootstrap.
	MaxPasses int `mapstructure:"max_passes" yaml:"max_passes"`

	// MaxEvaluations is the root finder's budget per pillar.
	MaxEvaluations int `mapstructure:"max_evaluations" yaml:"max_evaluations"`

	LocalMaxEvaluations int `mapstructure:"local_max_evaluations" yaml:"local_max_evaluations"`

	// LocalWindow is how many already solved nodes shape the segment being solved.
	LocalWindow int `mapstructure:"local_window" yaml:"local_window"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // json or console
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	Bootstrap: BootstrapConfig{
		Accuracy:            1e-12,
		LocalAccuracy:       1e-10,
		MaxPasses:           100,
		MaxEvaluations:      100,
		LocalMaxEvaluations: 50,
		LocalWindow:         2,
	},
	Logging: LoggingConfig{Level: "info", Format: "json"},
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/ratecurve.yaml
//  2. ~/.ratecurve/ratecurve.yaml
//
// A missing file is not an error. Environment variables override file values, e.g.
// RATECURVE_BOOTSTRAP_ACCURACY.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("ratecurve")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".ratecurve"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config.Load: reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config.LoadFromFile: reading %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("RATECURVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	b := DefaultConfig.Bootstrap
	v.SetDefault("bootstrap.accuracy", b.Accuracy)
	v.SetDefault("bootstrap.local_accuracy", b.LocalAccuracy)
	v.SetDefault("bootstrap.max_passes", b.MaxPasses)
	v.SetDefault("bootstrap.max_evaluations", b.MaxEvaluations)
	v.SetDefault("bootstrap.local_max_evaluations", b.LocalMaxEvaluations)
	v.SetDefault("bootstrap.local_window", b.LocalWindow)

	v.SetDefault("logging.level", DefaultConfig.Logging.Level)
	v.SetDefault("logging.format", DefaultConfig.Logging.Format)
	v.SetDefault("metrics.enabled", false)
}

// Validate rejects values no bootstrap can run with.
func (c Config) Validate() error {
	b := c.Bootstrap
	switch {
	case !(b.Accuracy > 0):
		return fmt.Errorf("config: bootstrap.accuracy must be positive, got %g", b.Accuracy)
	case !(b.LocalAccuracy > 0):
		return fmt.Errorf("config: bootstrap.local_accuracy must be positive, got %g", b.LocalAccuracy)
	case b.MaxPasses < 1:
		return fmt.Errorf("config: bootstrap.max_passes must be at least 1, got %d", b.MaxPasses)
	case b.MaxEvaluations < 3 || b.LocalMaxEvaluations < 3:
		return fmt.Errorf("config: evaluation budgets must be at least 3")
	case b.LocalWindow < 1:
		return fmt.Errorf("config: bootstrap.local_window must be at least 1, got %d", b.LocalWindow)
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
