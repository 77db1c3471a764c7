package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/acadtrack/query-portal/internal/api/http/handlers"
	"github.com/acadtrack/query-portal/internal/auth"
	"github.com/acadtrack/query-portal/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	Queries        *handlers.QueriesHandler
	Departments    *handlers.DepartmentsHandler
	Team           *handlers.TeamHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)

	users := authGroup.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("", auth.RequireAdmin(), cfg.Auth.ListUsers)
	users.Get("/email/:email", auth.RequireAdmin(), cfg.Auth.GetUserByEmail)
	users.Get("/:id", auth.RequireAdmin(), cfg.Auth.GetUser)
	users.Post("/:id/change-password", auth.RequireAnyPrincipal(), cfg.Auth.ChangePassword)

	adminGroup := app.Group("/admin")
	adminGroup.Post("/login", cfg.Admin.Login)

	adminUsers := adminGroup.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireAdmin(domain.AdminRoleMain))
	adminUsers.Get("", cfg.Admin.List)
	adminUsers.Post("", cfg.Admin.Create)
	adminUsers.Get("/:id", cfg.Admin.Get)
	adminUsers.Put("/:id", cfg.Admin.Update)
	adminUsers.Delete("/:id", cfg.Admin.Delete)
	adminUsers.Post("/:id/reset-password", cfg.Admin.ResetPassword)

	queries := app.Group("/queries", cfg.AuthMiddleware.Handle)
	queries.Post("", auth.RequireAnyPrincipal(), cfg.Queries.Create)
	queries.Get("", auth.RequireAdmin(), cfg.Queries.List)
	queries.Get("/stats/overview", auth.RequireAdmin(), cfg.Queries.Stats)
	queries.Get("/user/:user_id", auth.RequireAnyPrincipal(), cfg.Queries.ListForUser)
	queries.Get("/:id", auth.RequireAnyPrincipal(), cfg.Queries.Get)
	queries.Put("/:id", auth.RequireAdmin(), cfg.Queries.Update)
	queries.Delete("/:id", auth.RequireAdmin(), cfg.Queries.Delete)
	queries.Post("/:id/upload", auth.RequireAnyPrincipal(), cfg.Queries.UploadAttachment)

	departments := app.Group("/departments", cfg.AuthMiddleware.Handle)
	departments.Get("", auth.RequireAnyPrincipal(), cfg.Departments.List)
	departments.Get("/:id", auth.RequireAnyPrincipal(), cfg.Departments.Get)
	departments.Get("/:id/members", auth.RequireAnyPrincipal(), cfg.Departments.Members)
	departments.Post("/:id/members", auth.RequireAdmin(), cfg.Departments.AddMember)
	departments.Put("/:id/head/:user_id", auth.RequireAdmin(), cfg.Departments.SetHead)
	departments.Put("/:id/members/:user_id", auth.RequireAdmin(), cfg.Departments.UpdateMember)
	departments.Delete("/:id/members/:user_id", auth.RequireAdmin(), cfg.Departments.RemoveMember)
	departments.Get("/:id/stats", auth.RequireAnyPrincipal(), cfg.Departments.Stats)

	team := app.Group("/team-members", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	team.Get("", cfg.Team.List)
	team.Post("", cfg.Team.Create)
	team.Get("/:id", cfg.Team.Get)
	team.Put("/:id", cfg.Team.Update)
	team.Delete("/:id", cfg.Team.Delete)
}
