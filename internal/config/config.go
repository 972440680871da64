// Package config loads bloom's settings from an optional YAML file with
// BLOOM_-prefixed environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/db"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/shell"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/steps"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "BLOOM_"

type ClassifierConfig struct {
	Threshold float64       `yaml:"threshold" env:"THRESHOLD"`
	Debounce  time.Duration `yaml:"debounce" env:"DEBOUNCE"`
}

type SimulatorConfig struct {
	SeedMin      int           `yaml:"seed_min" env:"SEED_MIN"`
	SeedMax      int           `yaml:"seed_max" env:"SEED_MAX"`
	MinInterval  time.Duration `yaml:"min_interval" env:"MIN_INTERVAL"`
	MaxInterval  time.Duration `yaml:"max_interval" env:"MAX_INTERVAL"`
	MaxIncrement int           `yaml:"max_increment" env:"MAX_INCREMENT"`
}

type Config struct {
	DBPath      string           `yaml:"db_path" env:"DB_PATH"`
	SocketPath  string           `yaml:"socket_path" env:"SOCKET_PATH"`
	LogLevel    string           `yaml:"log_level" env:"LOG_LEVEL"`
	LogPath     string           `yaml:"log_path" env:"LOG_PATH"`
	StepGoal    int              `yaml:"step_goal" env:"STEP_GOAL"`
	MetricsAddr string           `yaml:"metrics_addr" env:"METRICS_ADDR"`
	Classifier  ClassifierConfig `yaml:"classifier" envPrefix:"CLASSIFIER_"`
	Simulator   SimulatorConfig  `yaml:"simulator" envPrefix:"SIMULATOR_"`
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "bloom", "config.yaml")
}

// Default returns the built-in settings.
func Default() Config {
	sim := steps.DefaultGeneratorConfig
	return Config{
		DBPath:     db.DefaultDBPath(),
		SocketPath: shell.SocketPath(),
		LogLevel:   "info",
		LogPath:    filepath.Join(filepath.Dir(db.DefaultDBPath()), "bloom.log"),
		StepGoal:   10000,
		Classifier: ClassifierConfig{
			Threshold: steps.DefaultThreshold,
			Debounce:  steps.DefaultDebounce,
		},
		Simulator: SimulatorConfig{
			SeedMin:      sim.SeedMin,
			SeedMax:      sim.SeedMax,
			MinInterval:  sim.MinInterval,
			MaxInterval:  sim.MaxInterval,
			MaxIncrement: sim.MaxIncrement,
		},
	}
}

// Load applies, in order: defaults, the YAML file at path, environment
// overrides. An empty path reads DefaultPath, which may be absent.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings no component can work with.
func (c Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is empty"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if c.StepGoal <= 0 {
		errs = append(errs, fmt.Errorf("step_goal must be positive, got %d", c.StepGoal))
	}
	if c.Classifier.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("classifier.threshold must be positive, got %g", c.Classifier.Threshold))
	}
	if c.Classifier.Debounce < 0 {
		errs = append(errs, fmt.Errorf("classifier.debounce must not be negative, got %s", c.Classifier.Debounce))
	}
	s := c.Simulator
	if s.SeedMin < 0 || s.SeedMin > s.SeedMax {
		errs = append(errs, fmt.Errorf("simulator seed range %d-%d is invalid", s.SeedMin, s.SeedMax))
	}
	if s.MinInterval <= 0 || s.MinInterval > s.MaxInterval {
		errs = append(errs, fmt.Errorf("simulator interval range %s-%s is invalid", s.MinInterval, s.MaxInterval))
	}
	if s.MaxIncrement < 1 {
		errs = append(errs, fmt.Errorf("simulator.max_increment must be at least 1, got %d", s.MaxIncrement))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Generator returns the simulator settings in the form steps expects.
func (c Config) Generator() steps.GeneratorConfig {
	return steps.GeneratorConfig{
		SeedMin:      c.Simulator.SeedMin,
		SeedMax:      c.Simulator.SeedMax,
		MinInterval:  c.Simulator.MinInterval,
		MaxInterval:  c.Simulator.MaxInterval,
		MaxIncrement: c.Simulator.MaxIncrement,
	}
}
