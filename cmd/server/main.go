package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/journey/internal/apps"
	"github.com/ahmetcoskunkizilkaya/journey/internal/apps/example"
	"github.com/ahmetcoskunkizilkaya/journey/internal/apps/resources"
	"github.com/ahmetcoskunkizilkaya/journey/internal/apps/subscription"
	"github.com/ahmetcoskunkizilkaya/journey/internal/config"
	"github.com/ahmetcoskunkizilkaya/journey/internal/database"
	"github.com/ahmetcoskunkizilkaya/journey/internal/dto"
	"github.com/ahmetcoskunkizilkaya/journey/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/journey/internal/logging"
	"github.com/ahmetcoskunkizilkaya/journey/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/journey/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/journey/internal/routes"
	"github.com/ahmetcoskunkizilkaya/journey/internal/services"
	"github.com/ahmetcoskunkizilkaya/journey/internal/trpc"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	// Sentry error tracking
	var extraHandlers []slog.Handler
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
			extraHandlers = append(extraHandlers, logging.NewSentryHandler(sentry.CurrentHub()))
		}
	}

	// Structured logging (JSON to stdout, ERROR+ to Sentry)
	logger := logging.Setup(cfg.LogLevelValue(), extraHandlers...)

	// Database (nil for the in-memory driver)
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	subscriptionRepo := subscriptionRepository(db, logger)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, logger)
	webhookService := services.NewWebhookService(subscriptionService, logger)

	plugins := []apps.Plugin{
		resources.New(),
		subscription.New(subscriptionService),
		example.New(),
	}

	// Migrate plugin models
	if db != nil {
		for _, p := range plugins {
			if models := p.Models(); len(models) > 0 {
				if err := database.MigrateModels(db, models); err != nil {
					logger.Error("plugin migration failed", "plugin", p.ID(), "error", err)
					os.Exit(1)
				}
				logger.Info("plugin migrated", "plugin", p.ID(), "models", len(models))
			}
		}
		seedSubscriptions(subscriptionRepo, logger)
	}

	m := metrics.New()
	router := trpc.NewRouter(trpc.WithObserver(m.ObserveProcedure), trpc.WithLogger(logger))
	for _, p := range plugins {
		p.RegisterProcedures(router, cfg)
	}
	logger.Info("procedures registered", "procedures", router.Procedures())

	// Handlers
	healthHandler := handlers.NewHealthHandler(subscriptionRepo, router.Procedures())
	webhookHandler := handlers.NewWebhookHandler(webhookService, cfg.WebhookSecret, m, logger)

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	// Routes
	routes.Setup(app, cfg, router, healthHandler, webhookHandler, m)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	logger.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := database.Close(db); err != nil {
		logger.Error("database close error", "error", err)
	}
	sentry.Flush(2 * time.Second)

	logger.Info("server stopped")
}

func subscriptionRepository(db *gorm.DB, logger *slog.Logger) services.SubscriptionRepository {
	if db == nil {
		logger.Info("using in-memory subscription store")
		return services.NewMemorySubscriptionRepository(services.MockSubscriptions(time.Now())...)
	}
	return services.NewGormSubscriptionRepository(db)
}

func seedSubscriptions(repo services.SubscriptionRepository, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	created, err := services.SeedSubscriptions(ctx, repo, services.MockSubscriptions(time.Now()))
	if err != nil {
		logger.Error("subscription seed failed", "error", err)
		return
	}
	logger.Info("subscriptions seeded", "created", created)
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
