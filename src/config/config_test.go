package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// clearEnv lets godotenv set key while still restoring it after the test.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.MaxFloor != 10 || !slices.Equal(cfg.Cars, []int{1, 2}) || cfg.Policy != PolicyParity {
		t.Errorf("Default() = %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "fleet.yaml", `
maxFloor: 20
cars: [1, 2, 3]
doorDwell: 250ms
policy: nearest
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxFloor != 20 || !slices.Equal(cfg.Cars, []int{1, 2, 3}) {
		t.Errorf("building = %d floors, cars %v", cfg.MaxFloor, cfg.Cars)
	}
	if cfg.DoorDwell != 250*time.Millisecond || cfg.Policy != PolicyNearest {
		t.Errorf("dwell %s policy %q", cfg.DoorDwell, cfg.Policy)
	}
	if cfg.PanelAddr != PanelAddr || cfg.LogLevel != LogLevel {
		t.Errorf("missing keys lost their defaults: %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative floor", "maxFloor: -1"},
		{"no cars", "cars: []"},
		{"duplicate car", "cars: [1, 1]"},
		{"negative dwell", "doorDwell: -1s"},
		{"unknown policy", "policy: random"},
		{"malformed", "cars: [1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, "bad.yaml", tt.yaml)); err == nil {
				t.Error("Load accepted invalid config")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t, EnvConfigPath, EnvPanelAddr, EnvLogLevel)
	envFile := writeFile(t, ".env", "SCANVATOR_CONFIG=fleet.yaml\nSCANVATOR_PANEL_ADDR=0.0.0.0:9000\n")

	cfg := Default()
	path, err := LoadEnv(&cfg, envFile)
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if path != "fleet.yaml" {
		t.Errorf("config path = %q, want fleet.yaml", path)
	}
	if cfg.PanelAddr != "0.0.0.0:9000" {
		t.Errorf("PanelAddr = %q", cfg.PanelAddr)
	}
	if cfg.LogLevel != LogLevel {
		t.Errorf("LogLevel changed to %q without an override", cfg.LogLevel)
	}
}

func TestLoadEnvProcessWins(t *testing.T) {
	clearEnv(t, EnvConfigPath, EnvPanelAddr)
	t.Setenv(EnvLogLevel, "error")
	envFile := writeFile(t, ".env", "SCANVATOR_LOG_LEVEL=info\n")

	cfg := Default()
	if _, err := LoadEnv(&cfg, envFile); err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want the process value", cfg.LogLevel)
	}
}

func TestLoadEnvMissingFile(t *testing.T) {
	clearEnv(t, EnvConfigPath, EnvPanelAddr, EnvLogLevel)
	cfg := Default()
	path, err := LoadEnv(&cfg, filepath.Join(t.TempDir(), ".env"))
	if err != nil || path != "" {
		t.Errorf("LoadEnv with missing file = %q, %v", path, err)
	}
	if cfg.PanelAddr != PanelAddr {
		t.Errorf("PanelAddr = %q", cfg.PanelAddr)
	}
}
