package storage

import (
	"fmt"

	"github.com/JaimeStill/lexdraft/pkg/envvar"
)

// Config holds Azure Blob Storage connection parameters. MaxListSize is
// the default page size for List; InitAttempts bounds container creation
// retries at startup.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	MaxListSize      int32  `toml:"max_list_size"`
	InitAttempts     int    `toml:"init_attempts"`
}

// Env names the environment variables that override each field.
type Env struct {
	ContainerName    string
	ConnectionString string
	MaxListSize      string
	InitAttempts     string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	c.MaxListSize = min(c.MaxListSize, MaxListCap)
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.MaxListSize != 0 {
		c.MaxListSize = overlay.MaxListSize
	}
	if overlay.InitAttempts != 0 {
		c.InitAttempts = overlay.InitAttempts
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "artifacts"
	}
	if c.MaxListSize == 0 {
		c.MaxListSize = 50
	}
	if c.InitAttempts == 0 {
		c.InitAttempts = 3
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.String(env.ContainerName, &c.ContainerName)
	envvar.String(env.ConnectionString, &c.ConnectionString)
	envvar.Int32(env.MaxListSize, &c.MaxListSize)
	envvar.Int(env.InitAttempts, &c.InitAttempts)
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	if c.ConnectionString == "" {
		return fmt.Errorf("connection_string required")
	}
	if c.MaxListSize < 1 {
		return fmt.Errorf("max_list_size must be positive")
	}
	if c.InitAttempts < 1 {
		return fmt.Errorf("init_attempts must be positive")
	}
	return nil
}
