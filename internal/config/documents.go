package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/JaimeStill/lexdraft/pkg/envvar"
)

const (
	EnvDocumentsDisableArchive = "LEXDRAFT_DOCUMENTS_DISABLE_ARCHIVE"
	EnvDocumentsRetryAttempts  = "LEXDRAFT_DOCUMENTS_RETRY_ATTEMPTS"
	EnvDocumentsRetryDelay     = "LEXDRAFT_DOCUMENTS_RETRY_DELAY"
	EnvDocumentsMaxBatchSize   = "LEXDRAFT_DOCUMENTS_MAX_BATCH_SIZE"
	EnvDocumentsConcurrency    = "LEXDRAFT_DOCUMENTS_CONCURRENCY"
	EnvDocumentsPassageLimit   = "LEXDRAFT_DOCUMENTS_PASSAGE_LIMIT"
)

// DocumentsConfig controls document generation and artifact archiving.
type DocumentsConfig struct {
	DisableArchive bool   `toml:"disable_archive"`
	RetryAttempts  int    `toml:"retry_attempts"`
	RetryDelay     string `toml:"retry_delay"`
	MaxBatchSize   int    `toml:"max_batch_size"`
	Concurrency    int    `toml:"concurrency"`
	PassageLimit   int    `toml:"passage_limit"`
}

// RetryDelayDuration returns RetryDelay as a time.Duration.
func (c *DocumentsConfig) RetryDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *DocumentsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. DisableArchive only
// applies when set.
func (c *DocumentsConfig) Merge(overlay *DocumentsConfig) {
	if overlay.DisableArchive {
		c.DisableArchive = true
	}
	if overlay.RetryAttempts != 0 {
		c.RetryAttempts = overlay.RetryAttempts
	}
	if overlay.RetryDelay != "" {
		c.RetryDelay = overlay.RetryDelay
	}
	if overlay.MaxBatchSize != 0 {
		c.MaxBatchSize = overlay.MaxBatchSize
	}
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
	if overlay.PassageLimit != 0 {
		c.PassageLimit = overlay.PassageLimit
	}
}

func (c *DocumentsConfig) loadDefaults() {
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 3
	}
	if c.RetryDelay == "" {
		c.RetryDelay = "500ms"
	}
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = 25
	}
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.NumCPU()
	}
	if c.PassageLimit <= 0 {
		c.PassageLimit = 3
	}
}

func (c *DocumentsConfig) loadEnv() {
	envvar.Bool(EnvDocumentsDisableArchive, &c.DisableArchive)
	envvar.Int(EnvDocumentsRetryAttempts, &c.RetryAttempts)
	envvar.String(EnvDocumentsRetryDelay, &c.RetryDelay)
	envvar.Int(EnvDocumentsMaxBatchSize, &c.MaxBatchSize)
	envvar.Int(EnvDocumentsConcurrency, &c.Concurrency)
	envvar.Int(EnvDocumentsPassageLimit, &c.PassageLimit)
}

func (c *DocumentsConfig) validate() error {
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be positive")
	}
	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		return fmt.Errorf("invalid retry_delay: %w", err)
	}
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("max_batch_size must be positive")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive")
	}
	if c.PassageLimit < 1 {
		return fmt.Errorf("passage_limit must be positive")
	}
	return nil
}
