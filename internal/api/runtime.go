package api

import (
	"github.com/JaimeStill/lexdraft/internal/config"
	"github.com/JaimeStill/lexdraft/internal/infrastructure"
	"github.com/JaimeStill/lexdraft/pkg/pagination"
)

// Runtime is the infrastructure as seen by API handlers: the shared
// systems with an api-scoped logger plus the request limits that apply to
// every domain.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination  pagination.Config
	MaxBodySize int64
	MaxListSize int32
}

func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		MaxBodySize:    cfg.API.MaxBodySizeBytes(),
		MaxListSize:    cfg.Storage.MaxListSize,
	}
}
