// Package config provides unified configuration loading for walks.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/DauteRR/Random-Walks/internal/constants"
	"github.com/DauteRR/Random-Walks/internal/pathutil"
	"github.com/DauteRR/Random-Walks/internal/simulation"
	"gopkg.in/yaml.v3"
)

// WalksConfig contains all walks configuration settings.
type WalksConfig struct {
	// Simulation contains the grid, walk placement and tick settings.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Logging contains settings for operational logging and run tracing.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulationConfig configures a single run.
type SimulationConfig struct {
	// Density is the requested number of points; the grid side is
	// floor(sqrt(density)) - 1. Ignored when Rows and Columns are both set.
	Density int `json:"density" yaml:"density"`

	// Rows and Columns set the grid dimensions explicitly.
	Rows    int `json:"rows,omitempty" yaml:"rows,omitempty"`
	Columns int `json:"columns,omitempty" yaml:"columns,omitempty"`

	// Walks is the number of randomly placed walks.
	Walks int `json:"walks" yaml:"walks"`

	// AllowCollisions disables both the occupancy and the no-reversal filter.
	AllowCollisions bool `json:"allow_collisions" yaml:"allow_collisions"`

	// Delay is the interval between ticks in timer mode. 0 runs unpaced.
	Delay time.Duration `json:"delay" yaml:"delay"`

	// MaxSteps stops the run after that many ticks. 0 runs until every walk finishes.
	MaxSteps int `json:"max_steps" yaml:"max_steps"`

	// Seed seeds the random source. 0 seeds from the clock.
	Seed int64 `json:"seed" yaml:"seed"`

	// Trigger selects how ticks are driven: "timer" or "manual".
	Trigger constants.Trigger `json:"trigger" yaml:"trigger"`
}

// LoggingConfig configures walks' logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables run tracing to <trace_dir>/trace.jsonl.
	// "trace" additionally logs every tick.
	Level string `json:"level" yaml:"level"`

	// TraceDir is where trace.jsonl is written. Supports ${VAR} and a leading ~.
	TraceDir string `json:"trace_dir,omitempty" yaml:"trace_dir,omitempty"`
}

// Default returns a WalksConfig with sensible defaults.
func Default() *WalksConfig {
	return &WalksConfig{
		Simulation: SimulationConfig{
			Density:         constants.DefaultDensity,
			Walks:           constants.DefaultWalks,
			AllowCollisions: constants.DefaultAllowCollisions,
			Delay:           constants.DefaultDelay,
			MaxSteps:        constants.DefaultMaxSteps,
			Trigger:         constants.TriggerTimer,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.walks/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(homeDir, ".walks", "config.yaml"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.walks/config.yaml -> environment variables
func Load() (*WalksConfig, error) {
	config := Default()

	if configPath, err := DefaultPath(); err == nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadPath loads configuration from path instead of the default location.
// An empty path behaves like Load. Environment overrides still apply.
func LoadPath(path string) (*WalksConfig, error) {
	if path == "" {
		return Load()
	}

	path, err := pathutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}

	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*WalksConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	traceDir, err := pathutil.ExpandHome(expandEnvVars(config.Logging.TraceDir))
	if err != nil {
		return nil, err
	}
	config.Logging.TraceDir = traceDir

	return config, nil
}

// Save writes the configuration to path, creating its directory.
func Save(config *WalksConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *WalksConfig) Validate() error {
	sim := c.Simulation

	if sim.Rows < 0 || sim.Columns < 0 {
		return fmt.Errorf("rows and columns must be non-negative, got %dx%d", sim.Rows, sim.Columns)
	}
	if (sim.Rows == 0) != (sim.Columns == 0) {
		return fmt.Errorf("rows and columns must be set together, got %dx%d", sim.Rows, sim.Columns)
	}
	if sim.Rows == 0 && sim.Density < simulation.MinDensity {
		return fmt.Errorf("density must be at least %d, got %d", simulation.MinDensity, sim.Density)
	}

	rows, columns, err := sim.Dimensions()
	if err != nil {
		return err
	}
	if rows > constants.MaxCells/columns {
		return fmt.Errorf("grid of %dx%d exceeds %d cells", rows, columns, constants.MaxCells)
	}

	if sim.Walks < 0 {
		return fmt.Errorf("walks must be non-negative, got %d", sim.Walks)
	}

	if sim.Delay < constants.MinDelay || sim.Delay > constants.MaxDelay {
		return fmt.Errorf("delay must be between %v and %v, got %v", constants.MinDelay, constants.MaxDelay, sim.Delay)
	}

	if sim.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be non-negative, got %d", sim.MaxSteps)
	}

	if !sim.Trigger.Valid() {
		return fmt.Errorf("invalid trigger: %s (valid: timer, manual)", sim.Trigger)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// Dimensions resolves the grid size: explicit rows and columns win over density.
func (c SimulationConfig) Dimensions() (rows, columns int, err error) {
	if c.Rows > 0 && c.Columns > 0 {
		return c.Rows, c.Columns, nil
	}
	return simulation.DimensionsForDensity(c.Density)
}

// applyEnvOverrides applies environment variable overrides to the config.
// Unparseable numeric values are ignored.
func applyEnvOverrides(config *WalksConfig) {
	if v := os.Getenv("WALKS_DENSITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Density = n
		}
	}

	if v := os.Getenv("WALKS_WALKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Walks = n
		}
	}

	if v := os.Getenv("WALKS_ALLOW_COLLISIONS"); v != "" {
		config.Simulation.AllowCollisions = v == "true" || v == "1"
	}

	if v := os.Getenv("WALKS_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Simulation.Delay = d
		}
	}

	if v := os.Getenv("WALKS_MAX_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.MaxSteps = n
		}
	}

	if v := os.Getenv("WALKS_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Simulation.Seed = n
		}
	}

	if v := os.Getenv("WALKS_TRIGGER"); v != "" {
		config.Simulation.Trigger = constants.Trigger(v)
	}

	if v := os.Getenv("WALKS_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
