// Command journey runs the device-side core without a UI: it hydrates the
// persisted stores, resolves the initial route and checks the procedure
// backend.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/bootstrap"
	"github.com/ahmetcoskunkizilkaya/journey/internal/config"
	"github.com/ahmetcoskunkizilkaya/journey/internal/dto"
	"github.com/ahmetcoskunkizilkaya/journey/internal/logging"
	"github.com/ahmetcoskunkizilkaya/journey/internal/models"
	"github.com/ahmetcoskunkizilkaya/journey/internal/persist"
	"github.com/ahmetcoskunkizilkaya/journey/internal/rpcclient"
	"github.com/ahmetcoskunkizilkaya/journey/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevelValue())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, closer, err := persist.Open(ctx, cfg)
	if err != nil {
		logger.Error("store backend unavailable", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closer.Close()

	stores := store.New(p, logger)
	if err := stores.HydrateAll(ctx); err != nil {
		logger.Warn("hydration incomplete, continuing with defaults", "error", err)
	}

	controller := bootstrap.NewController(stores.Profile, stores.AppState,
		bootstrap.NavigatorFunc(func(r bootstrap.Route) {
			logger.Info("navigate", "route", r)
		}),
		bootstrap.WithDelay(cfg.BootstrapDelay),
		bootstrap.WithLogger(logger),
	)
	if _, err := controller.Watch(ctx, stores.AppState); err != nil {
		logger.Warn("bootstrap aborted", "error", err)
		return
	}

	docs := stores.Documents.Documents()
	logger.Info("device state",
		"dark_mode", stores.Theme.IsDarkMode(),
		"has_profile", stores.Profile.Profile() != nil,
		"documents", len(docs),
		"expiring_documents", len(stores.Documents.GetExpiringDocuments(time.Now())),
	)

	client, err := rpcclient.NewFromConfig(cfg, logger)
	if err != nil {
		logger.Error("rpc client not configured", "error", err)
		os.Exit(1)
	}

	resp, err := client.Query(ctx, "resources.list", dto.ResourcesListInput{Category: "All"})
	if err != nil {
		logger.Error("resources.list failed", "error", err)
		return
	}
	var resources []models.Resource
	if err := resp.Decode(&resources); err != nil {
		logger.Warn("resources unavailable", "status", resp.StatusCode, "error", err)
		return
	}
	logger.Info("resources loaded", "count", len(resources))
}
