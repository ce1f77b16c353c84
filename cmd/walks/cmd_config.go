package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/DauteRR/Random-Walks/internal/config"
	"github.com/DauteRR/Random-Walks/internal/constants"
	"github.com/DauteRR/Random-Walks/internal/pathutil"
	"github.com/DauteRR/Random-Walks/internal/simulation"
	"github.com/spf13/cobra"
)

// configKeys lists the settable keys in display order.
var configKeys = []string{
	"simulation.density",
	"simulation.rows",
	"simulation.columns",
	"simulation.walks",
	"simulation.allow_collisions",
	"simulation.delay",
	"simulation.max_steps",
	"simulation.seed",
	"simulation.trigger",
	"logging.level",
	"logging.trace_dir",
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage walks configuration",
		Long: `View and modify walks configuration settings.

Configuration is stored in ~/.walks/config.yaml unless --config names another file.

Examples:
  walks config list                          # Show all settings
  walks config get simulation.density        # Get a specific setting
  walks config set simulation.delay 250ms    # Set a setting`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			configFlag, _ := cmd.Flags().GetString("config")

			cfg, err := config.LoadPath(configFlag)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(cfg)
			}

			path, _ := configFilePath(cmd)
			fmt.Fprintf(out, "Configuration (%s):\n\n", pathutil.RedactPath(path))
			for _, key := range configKeys {
				value, _ := getConfigValue(cfg, key)
				fmt.Fprintf(out, "  %-29s %v\n", key+":", displayValue(value))
			}
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			configFlag, _ := cmd.Flags().GetString("config")
			key := args[0]

			cfg, err := config.LoadPath(configFlag)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			value, ok := getConfigValue(cfg, key)
			if !ok {
				return fmt.Errorf("unknown configuration key: %s", key)
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"key":   key,
					"value": value,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]
			value := args[1]

			path, err := configFilePath(cmd)
			if err != nil {
				return err
			}

			// Environment overrides are not persisted.
			cfg := config.Default()
			if _, statErr := os.Stat(path); statErr == nil {
				if cfg, err = config.LoadFromFile(path); err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
			}

			if err := setConfigValue(cfg, key, value); err != nil {
				return err
			}

			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"status": "updated",
					"key":    key,
					"value":  value,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}
}

// configFilePath returns the --config flag or the default config location.
func configFilePath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return pathutil.ExpandHome(p)
	}
	p, err := config.DefaultPath()
	if err != nil {
		return "", fmt.Errorf("failed to locate config file: %w", err)
	}
	return p, nil
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.WalksConfig, key string) (interface{}, bool) {
	sim := cfg.Simulation
	switch key {
	case "simulation.density":
		return sim.Density, true
	case "simulation.rows":
		return sim.Rows, true
	case "simulation.columns":
		return sim.Columns, true
	case "simulation.walks":
		return sim.Walks, true
	case "simulation.allow_collisions":
		return sim.AllowCollisions, true
	case "simulation.delay":
		return sim.Delay.String(), true
	case "simulation.max_steps":
		return sim.MaxSteps, true
	case "simulation.seed":
		return sim.Seed, true
	case "simulation.trigger":
		return sim.Trigger.String(), true
	case "logging.level":
		return cfg.Logging.Level, true
	case "logging.trace_dir":
		return cfg.Logging.TraceDir, true
	default:
		return nil, false
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.WalksConfig, key, value string) error {
	sim := &cfg.Simulation
	switch key {
	case "simulation.density":
		n, err := parseNonNegative(key, value)
		if err != nil {
			return err
		}
		if n < simulation.MinDensity {
			return fmt.Errorf("density must be at least %d, got %d", simulation.MinDensity, n)
		}
		sim.Density = n
	case "simulation.rows":
		n, err := parseNonNegative(key, value)
		if err != nil {
			return err
		}
		sim.Rows = n
	case "simulation.columns":
		n, err := parseNonNegative(key, value)
		if err != nil {
			return err
		}
		sim.Columns = n
	case "simulation.walks":
		n, err := parseNonNegative(key, value)
		if err != nil {
			return err
		}
		sim.Walks = n
	case "simulation.allow_collisions":
		sim.AllowCollisions = value == "true" || value == "1"
	case "simulation.delay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %s", value)
		}
		if d < constants.MinDelay || d > constants.MaxDelay {
			return fmt.Errorf("delay must be between %v and %v, got %v", constants.MinDelay, constants.MaxDelay, d)
		}
		sim.Delay = d
	case "simulation.max_steps":
		n, err := parseNonNegative(key, value)
		if err != nil {
			return err
		}
		sim.MaxSteps = n
	case "simulation.seed":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed: %s", value)
		}
		sim.Seed = n
	case "simulation.trigger":
		trigger := constants.Trigger(value)
		if !trigger.Valid() {
			return fmt.Errorf("invalid trigger: %s (valid: timer, manual)", value)
		}
		sim.Trigger = trigger
	case "logging.level":
		switch value {
		case "info", "debug", "trace":
			cfg.Logging.Level = value
		default:
			return fmt.Errorf("invalid log level: %s (valid: info, debug, trace)", value)
		}
	case "logging.trace_dir":
		cfg.Logging.TraceDir = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func parseNonNegative(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %s (must be an integer)", key, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must be non-negative, got %d", key, n)
	}
	return n, nil
}

func displayValue(v interface{}) interface{} {
	if s, ok := v.(string); ok && s == "" {
		return "(not set)"
	}
	return v
}
