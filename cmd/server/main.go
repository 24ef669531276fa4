// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/estatewise/internal/api"
	"github.com/tomtom215/estatewise/internal/catalog"
	"github.com/tomtom215/estatewise/internal/config"
	"github.com/tomtom215/estatewise/internal/logging"
	"github.com/tomtom215/estatewise/internal/metrics"
	"github.com/tomtom215/estatewise/internal/supervisor"
	"github.com/tomtom215/estatewise/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // sequential startup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("catalog_path", cfg.Catalog.Path).
		Str("model_path", cfg.Model.Path).
		Bool("events_enabled", cfg.Events.Enabled).
		Bool("admin_enabled", cfg.AdminEnabled()).
		Msg("Starting Estatewise")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog
	store, err := catalog.Open(catalog.Config{
		Path:     cfg.Catalog.Path,
		InMemory: cfg.Catalog.InMemory,
	}, logging.WithComponent("catalog"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open property catalog")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing property catalog")
		}
	}()

	seeded, err := store.Seed(ctx, cfg.Catalog.SeedPath, catalog.SeedFormat(cfg.Catalog.SeedFormat))
	if err != nil {
		// Serving an empty catalog is allowed; updates can fill it later.
		logging.Error().Err(err).Str("path", cfg.Catalog.SeedPath).Msg("Failed to seed property catalog")
	} else if seeded > 0 {
		logging.Info().Int("properties", seeded).Msg("Property catalog seeded")
	}

	// Model lifecycle and engine
	rec, err := initRecommend(ctx, cfg, store, logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	// Event pipeline (optional)
	events, err := initEvents(ctx, cfg, store, rec.Engine, logging.WithComponent("events"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event processing")
	}

	var notifier api.UpdateNotifier
	if n := events.Notifier(); n != nil {
		notifier = n
	}

	handler := api.NewHandler(rec.Engine, store, notifier, api.HandlerConfig{
		AdminToken:     cfg.Admin.Token,
		RetrainTimeout: cfg.Model.TrainingTimeout,
	}, logging.WithComponent("api"))

	server := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: api.NewRouter(handler, &api.MiddlewareConfig{
			CORSAllowedOrigins: cfg.Server.CORSOrigins,
			CORSMaxAge:         86400,
			RateLimitRequests:  cfg.Server.RateLimitReqs,
			RateLimitWindow:    cfg.Server.RateLimitWindow,
			RateLimitDisabled:  cfg.Server.RateLimitDisabled,
		}),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	// Supervisor tree
	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)

	tree.AddModelService(rec.Scheduler)
	if events != nil {
		tree.AddMessagingService(services.NewEventComponentsService(events, cfg.Server.ShutdownTimeout))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// The tree sends exactly one result when it stops.
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
		treeErr = <-errCh
	case treeErr = <-errCh:
		cancel()
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	// Background admin retrains hold the catalog open.
	handler.Wait()

	logging.Info().Msg("Estatewise stopped")
}
