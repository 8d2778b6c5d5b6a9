package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/asap-api/internal/config"
	"github.com/noah-isme/asap-api/internal/handler"
	"github.com/noah-isme/asap-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EvaluationHandler *handler.EvaluationHandler
	ReportHandler     *handler.ReportHandler
	ConfigHandler     *handler.ConfigHandler
	JWTMiddleware     fiber.Handler
	EvaluateLimiter   fiber.Handler
	HealthProbes      []handler.HealthProbe
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes...))
	api.Get("/catalog", handler.Catalog())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.EvaluationHandler != nil {
		var guards []fiber.Handler
		if deps.EvaluateLimiter != nil {
			guards = append(guards, deps.EvaluateLimiter)
		}
		deps.EvaluationHandler.Register(api.Group("/evaluations", jwtMiddleware), guards...)
	}

	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(api.Group("/reports", jwtMiddleware))
	}

	if deps.ConfigHandler != nil {
		deps.ConfigHandler.Register(api.Group("/config", jwtMiddleware))
	}
}
