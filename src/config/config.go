package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	MaxFloor         = 10
	DoorDwell        = 0 * time.Second
	PanelAddr        = "127.0.0.1:15657"
	LogLevel         = "debug"
	Policy           = PolicyParity
	WakeBufferSize   = 1
	PanelReadTimeout = 5 * time.Second
	PanelIdleTimeout = 30 * time.Second
	TravelDuration   = 2 * time.Second
	DoorOpenDuration = 3 * time.Second
	DirChangePenalty = 2 * time.Second
)

const (
	PolicyParity  = "parity"
	PolicyNearest = "nearest"
)

// Env keys read from the .env file or the process environment.
const (
	EnvConfigPath = "SCANVATOR_CONFIG"
	EnvPanelAddr  = "SCANVATOR_PANEL_ADDR"
	EnvLogLevel   = "SCANVATOR_LOG_LEVEL"
)

type Config struct {
	MaxFloor  int           `yaml:"maxFloor"`
	Cars      []int         `yaml:"cars"`
	DoorDwell time.Duration `yaml:"doorDwell"`
	Policy    string        `yaml:"policy"`
	PanelAddr string        `yaml:"panelAddr"`
	LogLevel  string        `yaml:"logLevel"`
	LogFile   string        `yaml:"logFile"`
}

// Default mirrors the two-car, eleven-floor building of the demo.
func Default() Config {
	return Config{
		MaxFloor:  MaxFloor,
		Cars:      []int{1, 2},
		DoorDwell: DoorDwell,
		Policy:    Policy,
		PanelAddr: PanelAddr,
		LogLevel:  LogLevel,
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file
// keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// LoadEnv applies overrides from a .env file and the environment. A missing
// .env file is not an error. The returned path is the config file to load,
// empty when none is configured.
func LoadEnv(cfg *Config, envFile string) (string, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if addr := os.Getenv(EnvPanelAddr); addr != "" {
		cfg.PanelAddr = addr
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}
	return os.Getenv(EnvConfigPath), nil
}

func (c Config) Validate() error {
	if c.MaxFloor < 0 {
		return fmt.Errorf("maxFloor %d is negative", c.MaxFloor)
	}
	if len(c.Cars) == 0 {
		return errors.New("no cars configured")
	}
	seen := make(map[int]bool, len(c.Cars))
	for _, id := range c.Cars {
		if seen[id] {
			return fmt.Errorf("car %d listed twice", id)
		}
		seen[id] = true
	}
	if c.DoorDwell < 0 {
		return fmt.Errorf("doorDwell %s is negative", c.DoorDwell)
	}
	switch c.Policy {
	case PolicyParity, PolicyNearest:
	default:
		return fmt.Errorf("unknown policy %q", c.Policy)
	}
	return nil
}
