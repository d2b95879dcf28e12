package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Simulation SimulationConfig `yaml:"simulation"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
}

type SimulationConfig struct {
	// Seed 0 means a fresh random roster for every match.
	Seed     int64 `yaml:"seed"`
	FPS      int   `yaml:"fps"`
	MinUnits int   `yaml:"min_units"`
	MaxUnits int   `yaml:"max_units"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Address: ":8080"},
		Simulation: SimulationConfig{
			FPS:      60,
			MinUnits: 10,
			MaxUnits: 20,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. PORT, when set, overrides the server address.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Server.Address = ":" + strings.TrimPrefix(port, ":")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	s := c.Simulation
	if s.FPS <= 0 {
		return fmt.Errorf("%w: simulation.fps must be positive, got %d", ErrInvalid, s.FPS)
	}
	if s.MinUnits < 1 {
		return fmt.Errorf("%w: simulation.min_units must be at least 1, got %d", ErrInvalid, s.MinUnits)
	}
	if s.MaxUnits < s.MinUnits {
		return fmt.Errorf("%w: simulation.max_units (%d) below min_units (%d)", ErrInvalid, s.MaxUnits, s.MinUnits)
	}
	if c.Server.Address == "" {
		return fmt.Errorf("%w: server.address is empty", ErrInvalid)
	}
	return nil
}
