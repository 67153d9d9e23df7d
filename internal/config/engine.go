package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/lexdraft/pkg/envvar"
)

const (
	EnvEngineRegistry = "LEXDRAFT_ENGINE_REGISTRY"
	EnvEnginePlace    = "LEXDRAFT_ENGINE_PLACE"
)

// EngineConfig controls document classification and field assembly.
// An empty Registry selects the built-in document types.
type EngineConfig struct {
	Registry string `toml:"registry"`
	Place    string `toml:"place"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EngineConfig) Merge(overlay *EngineConfig) {
	if overlay.Registry != "" {
		c.Registry = overlay.Registry
	}
	if overlay.Place != "" {
		c.Place = overlay.Place
	}
}

func (c *EngineConfig) loadDefaults() {
	if c.Place == "" {
		c.Place = "New Delhi"
	}
}

func (c *EngineConfig) loadEnv() {
	envvar.String(EnvEngineRegistry, &c.Registry)
	envvar.String(EnvEnginePlace, &c.Place)
}

func (c *EngineConfig) validate() error {
	if c.Registry == "" {
		return nil
	}
	if _, err := os.Stat(c.Registry); err != nil {
		return fmt.Errorf("registry %s: %w", c.Registry, err)
	}
	return nil
}
