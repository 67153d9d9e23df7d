package api

import (
	"net/http"

	"github.com/JaimeStill/lexdraft/pkg/routes"
)

// registerRoutes mounts every domain group on mux and returns the
// registered patterns in order.
func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) []string {
	artifacts := newArtifactHandler(runtime.Storage, runtime.Logger, runtime.MaxListSize)

	return routes.Register(
		mux,
		domain.Documents.Handler(runtime.MaxBodySize).Routes(),
		domain.Passages.Handler().Routes(),
		artifacts.routes(),
	)
}
