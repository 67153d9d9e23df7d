// Package config loads service configuration from TOML files layered with
// LEXDRAFT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/lexdraft/pkg/database"
	"github.com/JaimeStill/lexdraft/pkg/envvar"
	"github.com/JaimeStill/lexdraft/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvLexdraftEnv     = "LEXDRAFT_ENV"
	EnvLexdraftVersion = "LEXDRAFT_VERSION"

	defaultEnv = "local"
)

var databaseEnv = &database.Env{
	Host:            "LEXDRAFT_DB_HOST",
	Port:            "LEXDRAFT_DB_PORT",
	Name:            "LEXDRAFT_DB_NAME",
	User:            "LEXDRAFT_DB_USER",
	Password:        "LEXDRAFT_DB_PASSWORD",
	SSLMode:         "LEXDRAFT_DB_SSL_MODE",
	MaxOpenConns:    "LEXDRAFT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "LEXDRAFT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "LEXDRAFT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "LEXDRAFT_DB_CONN_TIMEOUT",
	ApplicationName: "LEXDRAFT_DB_APPLICATION_NAME",
	ConnectAttempts: "LEXDRAFT_DB_CONNECT_ATTEMPTS",
	ConnectDelay:    "LEXDRAFT_DB_CONNECT_DELAY",
}

var storageEnv = &storage.Env{
	ContainerName:    "LEXDRAFT_STORAGE_CONTAINER_NAME",
	ConnectionString: "LEXDRAFT_STORAGE_CONNECTION_STRING",
	MaxListSize:      "LEXDRAFT_STORAGE_MAX_LIST_SIZE",
	InitAttempts:     "LEXDRAFT_STORAGE_INIT_ATTEMPTS",
}

// Config is the root configuration for the lexdraft service.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  database.Config `toml:"database"`
	Storage   storage.Config  `toml:"storage"`
	API       APIConfig       `toml:"api"`
	Engine    EngineConfig    `toml:"engine"`
	Documents DocumentsConfig `toml:"documents"`
	Version   string          `toml:"version"`
}

// Env returns the active environment name. It selects the overlay file.
func (c *Config) Env() string {
	env := defaultEnv
	envvar.String(EnvLexdraftEnv, &env)
	return env
}

// Load builds the configuration from the working directory.
func Load() (*Config, error) {
	return LoadDir(".")
}

// LoadDir reads config.toml and the config.<env>.toml overlay from dir,
// when present, then finalizes every section. Missing files are not an
// error; defaults and environment variables fill the gaps.
func LoadDir(dir string) (*Config, error) {
	cfg := &Config{}

	for i, path := range layers(dir, cfg.Env()) {
		layer, err := load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
		}
		if i == 0 {
			cfg = layer
			continue
		}
		cfg.Merge(layer)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sections.
func (c *Config) Merge(overlay *Config) {
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Engine.Merge(&overlay.Engine)
	c.Documents.Merge(&overlay.Documents)
}

func (c *Config) finalize() error {
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	envvar.String(EnvLexdraftVersion, &c.Version)

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"engine", c.Engine.Finalize},
		{"documents", c.Documents.Finalize},
	}

	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// layers lists candidate files from lowest to highest precedence.
func layers(dir, env string) []string {
	return []string{
		filepath.Join(dir, BaseConfigFile),
		filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env)),
	}
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
