// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/lexdraft/internal/config"
	"github.com/JaimeStill/lexdraft/internal/infrastructure"
	"github.com/JaimeStill/lexdraft/pkg/middleware"
	"github.com/JaimeStill/lexdraft/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Logger is outermost so a recovered panic is logged with its 500 status.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	mux := http.NewServeMux()
	patterns := registerRoutes(mux, domain, runtime)

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, err
	}

	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))

	runtime.Logger.Info("api routes registered", "base_path", cfg.API.BasePath, "routes", len(patterns))
	return m, nil
}
