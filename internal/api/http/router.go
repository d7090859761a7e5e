package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/solar-ticketing/internal/api/http/handlers"
	"github.com/spec-kit/solar-ticketing/internal/auth"
	"github.com/spec-kit/solar-ticketing/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Dashboard      *handlers.DashboardHandler
	Reports        *handlers.ReportsHandler
	Catalog        *handlers.CatalogHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Users.Register)
	app.Post("/auth/login", cfg.Users.Login)

	authed := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := authed.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/status", cfg.Tickets.UpdateStatus)

	authed.Get("/dashboard/stats", cfg.Dashboard.Stats)

	// Exports of the full collection are a manager concern.
	authed.Get("/reports/tickets.csv",
		auth.RequireRole(domain.RoleManager, domain.RoleAdmin),
		cfg.Reports.ExportCSV)

	authed.Get("/catalog/sites", cfg.Catalog.ListSites)
	authed.Get("/catalog/sites/:id/equipment", cfg.Catalog.ListEquipment)
}
