package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/phrazzld/hbnb-api/internal/config"
	"github.com/phrazzld/hbnb-api/internal/service"
	"github.com/phrazzld/hbnb-api/internal/service/auth"
	"github.com/phrazzld/hbnb-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	backend    store.Backend
	facade     service.Facade
	jwtService auth.JWTService
	registry   *prometheus.Registry
}

// newApplication opens the configured backend and builds the services on
// top of it. The caller must call cleanup.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.backend, err = openBackend(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	app.facade, err = service.NewFacade(app.backend, auth.NewBcryptHasher(cfg.Auth.BcryptCost), logger)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create facade: %w", err), app.backend.Close())
	}
	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.backend == nil {
		return
	}
	if err := app.backend.Close(); err != nil {
		app.logger.Error("failed to close storage backend", "error", err)
		return
	}
	app.logger.Info("storage backend closed")
}
