package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalogapi/internal/service"
)

// Pinger reports whether the backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// metrics may be nil, in which case /metrics is not served.
func RegisterRoutes(app *fiber.App, db Pinger, svc service.CatalogService, metrics prometheus.Gatherer) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics, promhttp.HandlerOpts{})))
	}

	app.Get("/entries", ListEntries(svc))
	app.Post("/entries", CreateEntry(svc))
	app.Get("/entries/:id", GetEntry(svc))
	app.Put("/entries/:id", UpdateEntry(svc))
	app.Delete("/entries/:id", DeleteEntry(svc))
	app.Post("/entries/:id/reviews", AddReview(svc))

	app.Get("/tags", ListTags(svc))
	app.Post("/tags", CreateTag(svc))

	app.Get("/covers/:id", GetCover(svc))
}

// HealthCheck checks store connectivity only.
//
// @Summary  Readiness probe
// @Tags     health
// @Success  200
// @Failure  503
// @Router   /health [get]
func HealthCheck(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
