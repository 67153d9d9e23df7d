package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/lexdraft/internal/config"
	"github.com/JaimeStill/lexdraft/internal/infrastructure"
)

// Server owns the process lifetime: subsystem startup, the HTTP listener,
// and coordinated shutdown.
type Server struct {
	infra           *infrastructure.Infrastructure
	http            *httpServer
	shutdownTimeout time.Duration
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra, cfg.Version)
	if err := modules.Mount(router); err != nil {
		return nil, fmt.Errorf("mount modules: %w", err)
	}

	return &Server{
		infra:           infra,
		http:            newHTTPServer(&cfg.Server, router, infra.Logger),
		shutdownTimeout: cfg.Server.ShutdownTimeoutDuration(),
	}, nil
}

func (s *Server) Logger() *slog.Logger {
	return s.infra.Logger
}

// Run serves until ctx is cancelled, then shuts every subsystem down.
// Startup failures of individual subsystems are logged and leave the
// service not ready; they do not stop it.
func (s *Server) Run(ctx context.Context) error {
	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go s.awaitReady()

	<-ctx.Done()
	s.infra.Logger.Info("initiating shutdown", "timeout", s.shutdownTimeout)
	return s.infra.Lifecycle.Shutdown(s.shutdownTimeout)
}

func (s *Server) awaitReady() {
	start := time.Now()
	if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
		s.infra.Logger.Error("subsystem startup failed", "error", err)
		return
	}
	s.infra.Logger.Info("all subsystems ready", "elapsed", time.Since(start).Round(time.Millisecond))
}
