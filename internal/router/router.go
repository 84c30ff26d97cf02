package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/config"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/handler"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/middleware"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler     *handler.AuthHandler
	ItemHandler     *handler.ItemHandler
	ActivityHandler *handler.ActivityHandler
	DispatchHandler *handler.DispatchHandler
	DocumentHandler *handler.DocumentHandler
	RelayHandler    *handler.RelayHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth)
	}

	if deps.ItemHandler != nil {
		items := api.Group("/items", jwtMiddleware)
		deps.ItemHandler.Register(items)
	}

	if deps.ActivityHandler != nil {
		activities := api.Group("/activities", jwtMiddleware, middleware.RequireRole(string(models.RoleAdmin)))
		deps.ActivityHandler.Register(activities)
	}

	if deps.DispatchHandler != nil {
		dispatches := api.Group("/dispatches", jwtMiddleware,
			middleware.RequireRole(string(models.RoleAdmin), string(models.RoleInventory)))
		deps.DispatchHandler.Register(dispatches)
	}

	if deps.DocumentHandler != nil {
		documents := api.Group("/documents", jwtMiddleware, middleware.RequireRole(string(models.RoleAdmin)))
		deps.DocumentHandler.Register(documents)
	}

	if deps.RelayHandler != nil {
		relay := api.Group("/relay", jwtMiddleware)
		deps.RelayHandler.Register(relay)
	}
}
