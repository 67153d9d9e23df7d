// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, the drafting
// engine) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/lexdraft/internal/config"
	"github.com/JaimeStill/lexdraft/internal/drafting"
	"github.com/JaimeStill/lexdraft/internal/registry"
	"github.com/JaimeStill/lexdraft/internal/templates"
	"github.com/JaimeStill/lexdraft/pkg/database"
	"github.com/JaimeStill/lexdraft/pkg/lifecycle"
	"github.com/JaimeStill/lexdraft/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Engine and Templates are immutable after construction and shared by every
// request.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Engine    *drafting.Engine
	Templates *templates.Set
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
// A registry that fails validation or a type without a template is fatal.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	engine, tmpl, err := NewEngine(&cfg.Engine)
	if err != nil {
		return nil, err
	}

	logger.Info(
		"drafting engine ready",
		"types", engine.Registry().Len(),
		"default", engine.Registry().Default(),
		"registry", registrySource(cfg.Engine.Registry),
	)

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Engine:    engine,
		Templates: tmpl,
	}, nil
}

// NewEngine loads the document type registry and the template set and checks
// that every registered type can be rendered.
func NewEngine(cfg *config.EngineConfig) (*drafting.Engine, *templates.Set, error) {
	reg, err := registry.Load(cfg.Registry)
	if err != nil {
		return nil, nil, fmt.Errorf("registry init failed: %w", err)
	}

	tmpl, err := templates.Builtin()
	if err != nil {
		return nil, nil, fmt.Errorf("templates init failed: %w", err)
	}

	for _, dt := range reg.Types() {
		if !tmpl.Has(dt.Template) {
			return nil, nil, fmt.Errorf(
				"%w: type %q references template %q",
				templates.ErrTemplateNotFound, dt.ID, dt.Template,
			)
		}
	}

	return drafting.New(reg, drafting.WithPlace(cfg.Place)), tmpl, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database and storage hooks are registered for startup and shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}

func registrySource(path string) string {
	if path == "" {
		return "builtin"
	}
	return path
}
