package api

import (
	"github.com/JaimeStill/lexdraft/internal/config"
	"github.com/JaimeStill/lexdraft/internal/documents"
	"github.com/JaimeStill/lexdraft/internal/passages"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Passages  passages.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	passagesSystem := passages.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Engine,
		runtime.Templates,
		passagesSystem,
		runtime.Logger,
		runtime.Pagination,
		documentOptions(&cfg.Documents),
	)

	return &Domain{
		Documents: docsSystem,
		Passages:  passagesSystem,
	}
}

func documentOptions(cfg *config.DocumentsConfig) documents.Options {
	return documents.Options{
		Archive:       !cfg.DisableArchive,
		RetryAttempts: uint(cfg.RetryAttempts),
		RetryDelay:    cfg.RetryDelayDuration(),
		MaxBatchSize:  cfg.MaxBatchSize,
		Concurrency:   cfg.Concurrency,
		PassageLimit:  cfg.PassageLimit,
	}
}
