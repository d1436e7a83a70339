package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/config"
	"github.com/ahmetcoskunkizilkaya/journey/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/journey/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/journey/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/journey/internal/trpc"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	procedures *trpc.Router,
	healthHandler *handlers.HealthHandler,
	webhookHandler *handlers.WebhookHandler,
	m *metrics.Metrics,
) {
	// Prometheus scrape endpoint (outside the rate limit)
	app.Get("/metrics", m.Handler())

	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Procedures: GET for queries, POST for mutations. The bearer token is
	// optional here; subscription procedures enforce ownership when
	// JWT_SECRET is set.
	procedures.Mount(api, middleware.OptionalJWT(cfg))

	// Webhooks: shared-secret auth, no JWT
	webhooks := api.Group("/webhooks")
	webhooks.Post("/payments", webhookHandler.HandlePayments)
}
