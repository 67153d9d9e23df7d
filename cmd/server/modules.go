package main

import (
	"net/http"

	"github.com/JaimeStill/lexdraft/internal/api"
	"github.com/JaimeStill/lexdraft/internal/config"
	"github.com/JaimeStill/lexdraft/internal/infrastructure"
	"github.com/JaimeStill/lexdraft/pkg/handlers"
	"github.com/JaimeStill/lexdraft/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) error {
	return router.Mount(m.API)
}

type healthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Types   int    `json:"document_types,omitempty"`
}

func buildRouter(infra *infrastructure.Infrastructure, version string) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, healthStatus{Status: "ok", Version: version})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, healthStatus{Status: "not ready"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, healthStatus{
			Status: "ready",
			Types:  infra.Engine.Registry().Len(),
		})
	})

	return router
}
