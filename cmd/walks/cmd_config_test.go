package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DauteRR/Random-Walks/internal/config"
	"github.com/DauteRR/Random-Walks/internal/constants"
)

func TestConfigSetThenGet(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	if _, _, err := execute(t, "", "config", "set", "simulation.delay", "250ms"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	path := filepath.Join(tmpDir, "home", ".walks", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config at %s: %v", path, err)
	}

	out, _, err := execute(t, "", "config", "get", "simulation.delay")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if strings.TrimSpace(out) != "250ms" {
		t.Errorf("get simulation.delay = %q, want 250ms", strings.TrimSpace(out))
	}
}

func TestConfigSet_ExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	path := filepath.Join(tmpDir, "custom", "walks.yaml")

	if _, _, err := execute(t, "", "config", "set", "simulation.trigger", "manual", "--config", path); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if _, _, err := execute(t, "", "config", "set", "simulation.walks", "7", "--config", path); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Simulation.Trigger != constants.TriggerManual {
		t.Errorf("trigger = %q, want manual", cfg.Simulation.Trigger)
	}
	if cfg.Simulation.Walks != 7 {
		t.Errorf("walks = %d, want 7", cfg.Simulation.Walks)
	}
}

func TestConfigSet_DoesNotPersistEnv(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	t.Setenv("WALKS_DENSITY", "900")

	if _, _, err := execute(t, "", "config", "set", "simulation.walks", "2"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	cfg, err := config.LoadFromFile(filepath.Join(tmpDir, "home", ".walks", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Simulation.Density != constants.DefaultDensity {
		t.Errorf("density = %d, environment override leaked into the file", cfg.Simulation.Density)
	}
}

func TestConfigList_JSON(t *testing.T) {
	isolateHome(t, t.TempDir())

	out, _, err := execute(t, "", "config", "list", "--json")
	if err != nil {
		t.Fatalf("config list failed: %v", err)
	}

	var cfg config.WalksConfig
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if cfg.Simulation.Density != constants.DefaultDensity {
		t.Errorf("density = %d, want default", cfg.Simulation.Density)
	}
	if cfg.Simulation.Delay != 100*time.Millisecond {
		t.Errorf("delay = %v, want 100ms", cfg.Simulation.Delay)
	}
}

func TestConfigList_Text(t *testing.T) {
	isolateHome(t, t.TempDir())

	out, _, err := execute(t, "", "config", "list")
	if err != nil {
		t.Fatalf("config list failed: %v", err)
	}
	for _, key := range configKeys {
		if !strings.Contains(out, key+":") {
			t.Errorf("list output missing %s:\n%s", key, out)
		}
	}
	if !strings.Contains(out, "(not set)") {
		t.Errorf("empty trace_dir should show as (not set):\n%s", out)
	}
}

func TestConfigGet_UnknownKey(t *testing.T) {
	isolateHome(t, t.TempDir())

	if _, _, err := execute(t, "", "config", "get", "llm.provider"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"simulation.density", "400", false},
		{"simulation.density", "3", true},
		{"simulation.rows", "10", false},
		{"simulation.rows", "-1", true},
		{"simulation.columns", "ten", true},
		{"simulation.walks", "0", false},
		{"simulation.allow_collisions", "false", false},
		{"simulation.delay", "1ms", false},
		{"simulation.delay", "0s", false},
		{"simulation.delay", "-5ms", true},
		{"simulation.delay", "later", true},
		{"simulation.max_steps", "100", false},
		{"simulation.seed", "-12", false},
		{"simulation.seed", "x", true},
		{"simulation.trigger", "timer", false},
		{"simulation.trigger", "button", true},
		{"logging.level", "trace", false},
		{"logging.level", "verbose", true},
		{"logging.trace_dir", "/tmp/walks", false},
		{"nope", "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := config.Default()
			err := setConfigValue(cfg, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("setConfigValue(%s, %s) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, ok := getConfigValue(cfg, tt.key)
			if !ok {
				t.Fatalf("getConfigValue(%s) not found", tt.key)
			}
			if s := toString(got); s != tt.value {
				t.Errorf("round trip %s = %q, want %q", tt.key, s, tt.value)
			}
		})
	}
}

func toString(v interface{}) string {
	b, _ := json.Marshal(v)
	return strings.Trim(string(b), `"`)
}
