package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/todo-service/internal/api/http/handlers"
	"github.com/spec-kit/todo-service/internal/auth"
	"github.com/spec-kit/todo-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Todos          *handlers.TodosHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Registration and login are the only
// unauthenticated endpoints besides the health probes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/", cfg.Auth.Register)
	authGroup.Post("/token", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	todos := app.Group("/todos", cfg.AuthMiddleware.Handle)
	todos.Post("/", cfg.Todos.Create)
	todos.Get("/", cfg.Todos.List)
	todos.Get("/:id", cfg.Todos.Get)
	todos.Put("/:id", cfg.Todos.Update)
	todos.Delete("/:id", cfg.Todos.Delete)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/todos", cfg.Admin.ListAll)
	admin.Delete("/todos/:id", cfg.Admin.Delete)
}
