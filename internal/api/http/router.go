package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/store-service/internal/api/http/handlers"
	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Root           *handlers.RootHandler
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Products       *handlers.ProductsHandler
	AuthMiddleware *auth.AuthMiddleware
	// Gatherer is exposed on /metrics when set.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	api.Get("/", cfg.Root.Index)

	users := api.Group("/user")
	users.Post("/register", cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)

	member := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleMember)}
	admin := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin)}

	products := api.Group("/product")
	products.Get("/", with(member, cfg.Products.List)...)
	products.Get("/search", with(member, cfg.Products.Search)...)
	products.Get("/:id", with(member, cfg.Products.Get)...)
	products.Post("/", with(admin, cfg.Products.Create)...)
	products.Put("/:id", with(admin, cfg.Products.Replace)...)
	products.Patch("/:id", with(admin, cfg.Products.Patch)...)
	products.Delete("/:id", with(admin, cfg.Products.Delete)...)

	app.Use(cfg.Root.NotFound)
}

func with(chain []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, handler)
}
