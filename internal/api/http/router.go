package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uap-campus/campus-fixer/internal/api/http/handlers"
	"github.com/uap-campus/campus-fixer/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Issues         *handlers.IssuesHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	issues := app.Group("/issues", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	issues.Post("/", cfg.Issues.Report)
	issues.Get("/", cfg.Issues.ListOwn)
	issues.Get("/:ticket_id", cfg.Issues.Track)
	issues.Post("/:ticket_id/status", cfg.Issues.ChangeStatus)
	issues.Post("/:ticket_id/feedback", cfg.Issues.AddFeedback)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	admin.Get("/dashboard", cfg.Admin.Dashboard)
	admin.Get("/issues", cfg.Admin.ListIssues)
	admin.Post("/issues/:ticket_id/assign", cfg.Admin.Assign)
}
