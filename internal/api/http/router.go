package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blood-drive-service/internal/api/http/handlers"
	"github.com/spec-kit/blood-drive-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Registrations  *handlers.RegistrationsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Registration submission and the
// dashboard's stats/inventory widgets are public; everything the admin
// console touches sits behind the bearer check.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/auth/admin/login", cfg.Auth.Login)
	api.Post("/registrations", cfg.Registrations.Create)
	api.Get("/dashboard/stats", cfg.Dashboard.Stats)
	api.Get("/dashboard/inventory", cfg.Dashboard.Inventory)

	admin := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/registrations", cfg.Registrations.List)
	admin.Get("/registrations/:id", cfg.Registrations.Get)
	admin.Patch("/registrations/status", cfg.Registrations.UpdateStatusBulk)
	admin.Post("/registrations/:id/complete", cfg.Registrations.Complete)
	admin.Post("/registrations/:id/unable", cfg.Registrations.MarkUnableToDonate)
	admin.Get("/dashboard/activity", cfg.Dashboard.Activity)
	admin.Get("/dashboard/trend", cfg.Dashboard.Trend)
}
