package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/request-portal/internal/api/http/handlers"
	"github.com/spec-kit/request-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	Stats          *handlers.StatsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Auth.Register)
	app.Post("/auth/login", cfg.Auth.Login)

	authed := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	tickets := authed.Group("/tickets")
	tickets.Get("/options", cfg.Tickets.Options)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Patch("/:id/triage", cfg.Tickets.Triage)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)

	users := authed.Group("/users", auth.RequireAnalyst())
	users.Get("/", cfg.Users.List)
	users.Get("/analysts", cfg.Users.ListAnalysts)
	users.Patch("/:id/role", cfg.Users.SetRole)
	users.Delete("/:id", cfg.Users.Delete)

	authed.Get("/stats/dashboard", auth.RequireAnalyst(), cfg.Stats.Dashboard)
	authed.Get("/notifications/unseen", auth.RequireAnalyst(), cfg.Notifications.Unseen)
}
