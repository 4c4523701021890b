// Package config reads the optional panel configuration file. The file can
// replace the compiled-in project baseline and tune the port monitor's burst
// schedule; a missing file means defaults across the board.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/radlabs/radcontrol/internal/registry"
	"gopkg.in/yaml.v3"
)

// Config mirrors ~/.radcontrol.yaml.
type Config struct {
	Projects      []registry.Project `yaml:"projects,omitempty"`
	BurstDelaysMs []int              `yaml:"burst_delays_ms,omitempty"`
}

// DefaultPath returns ~/.radcontrol.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".radcontrol.yaml")
}

// Load reads a config file. A missing file is not an error; malformed YAML
// is.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write writes the config as YAML.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Baseline returns the configured project baseline, or the compiled-in one
// when the file doesn't define any projects.
func (c Config) Baseline() []registry.Project {
	if len(c.Projects) > 0 {
		return c.Projects
	}
	return registry.DefaultBaseline()
}

// BurstDelays returns the configured burst schedule, or the default.
func (c Config) BurstDelays() []time.Duration {
	if len(c.BurstDelaysMs) == 0 {
		return nil
	}
	delays := make([]time.Duration, 0, len(c.BurstDelaysMs))
	for _, ms := range c.BurstDelaysMs {
		if ms > 0 {
			delays = append(delays, time.Duration(ms)*time.Millisecond)
		}
	}
	return delays
}
