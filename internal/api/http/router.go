package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/student-support/internal/api/http/handlers"
	"github.com/spec-kit/student-support/internal/auth"
	"github.com/spec-kit/student-support/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Chat           *handlers.ChatHandler
	Profile        *handlers.ProfileHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)

	session := authGroup.Group("", cfg.AuthMiddleware.Handle)
	session.Post("/logout", cfg.Auth.Logout)
	session.Post("/password", cfg.Auth.ChangePassword)
	session.Get("/me", cfg.Auth.Me)

	chat := app.Group("/chat", cfg.AuthMiddleware.Handle, auth.RequirePermission(domain.PermissionSubmitQuery))
	chat.Post("/query", cfg.Chat.Query)

	students := app.Group("/students", cfg.AuthMiddleware.Handle)
	students.Get("/me/profile", auth.RequirePermission(domain.PermissionViewOwn), cfg.Profile.MyProfile)
	students.Get("/:id/profile", auth.RequirePermission(domain.PermissionViewAnySubject), cfg.Profile.StudentProfile)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("/", auth.RequireRole(domain.RoleSubject), cfg.Tickets.ListMine)
	tickets.Post("/", auth.RequireRole(domain.RoleSubject), cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/messages", auth.RequireRole(domain.RoleSubject), cfg.Tickets.AddMessage)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleStaff, domain.RoleAdmin))
	staff.Get("/tickets", cfg.StaffTickets.ListTickets)
	staff.Get("/tickets/queue", cfg.StaffTickets.MyQueue)
	staff.Get("/tickets/stats", cfg.StaffTickets.Stats)
	staff.Post("/tickets/:id/assign", cfg.StaffTickets.AssignTicket)
	staff.Post("/tickets/:id/messages", cfg.StaffTickets.AddMessage)
	staff.Post("/tickets/:id/resolve", cfg.StaffTickets.ResolveTicket)
	staff.Post("/tickets/:id/close", cfg.StaffTickets.CloseTicket)

	analytics := app.Group("/analytics", cfg.AuthMiddleware.Handle, auth.RequirePermission(domain.PermissionViewAnalytics))
	analytics.Get("/queries", cfg.Analytics.RecentQueries)
	analytics.Get("/stats", cfg.Analytics.Stats)

	knowledge := app.Group("/knowledge", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleStaff, domain.RoleAdmin))
	knowledge.Get("/categories", cfg.Analytics.Categories)
}
