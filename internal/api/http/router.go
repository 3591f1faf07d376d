package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/service-requests/internal/api/http/handlers"
	"github.com/spec-kit/service-requests/internal/auth"
	"github.com/spec-kit/service-requests/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Admins         *handlers.AdminHandler
	Sessions       *handlers.SessionHandler
	Requests       *handlers.RequestsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if registry := cfg.Metrics.Registry(); registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)
	authGroup.Post("/admin/login", cfg.Admins.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Sessions.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Sessions.Me)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	api.Get("/service-types", auth.RequireAnyRole(), cfg.Requests.ServiceTypes)
	api.Post("/requests", auth.RequireUser(), cfg.Requests.Submit)

	// Fixed paths go before /:id.
	admin := auth.RequireAdmin()
	api.Get("/requests", admin, cfg.Requests.List)
	api.Get("/requests/stats", admin, cfg.Requests.Stats)
	api.Get("/requests/export/csv", admin, cfg.Requests.ExportCSV)
	api.Get("/requests/export/xlsx", admin, cfg.Requests.ExportWorkbook)
	api.Get("/requests/:id", admin, cfg.Requests.Get)
	api.Patch("/requests/:id/status", admin, cfg.Requests.UpdateStatus)
}
