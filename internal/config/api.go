package config

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/lexdraft/pkg/envvar"
	"github.com/JaimeStill/lexdraft/pkg/formatting"
	"github.com/JaimeStill/lexdraft/pkg/middleware"
	"github.com/JaimeStill/lexdraft/pkg/pagination"
)

const (
	EnvAPIBasePath    = "LEXDRAFT_API_BASE_PATH"
	EnvAPIMaxBodySize = "LEXDRAFT_API_MAX_BODY_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "LEXDRAFT_CORS_ENABLED",
	Origins:          "LEXDRAFT_CORS_ORIGINS",
	AllowedMethods:   "LEXDRAFT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "LEXDRAFT_CORS_ALLOWED_HEADERS",
	AllowCredentials: "LEXDRAFT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "LEXDRAFT_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "LEXDRAFT_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "LEXDRAFT_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, and pagination settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxBodySize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	envvar.String(EnvAPIBasePath, &c.BasePath)
	envvar.String(EnvAPIMaxBodySize, &c.MaxBodySize)
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 || c.BasePath == "/" {
		return fmt.Errorf("base_path must be a single path segment such as /api: %q", c.BasePath)
	}
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if size < 1 {
		return fmt.Errorf("max_body_size must be positive")
	}
	return nil
}
