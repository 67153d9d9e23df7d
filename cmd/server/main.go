package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/lexdraft/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal("config load failed", err)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		fatal("server init failed", err)
	}

	logger := srv.Logger()
	logger.Info(
		"lexdraft starting",
		"version", cfg.Version,
		"addr", cfg.Server.Addr(),
		"env", cfg.Env(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("lexdraft stopped with errors", "error", err)
		os.Exit(1)
	}
	logger.Info("lexdraft stopped")
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
