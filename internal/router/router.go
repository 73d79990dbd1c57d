package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/benmouhabdel/heec-manager/internal/config"
	"github.com/benmouhabdel/heec-manager/internal/handler"
	"github.com/benmouhabdel/heec-manager/internal/middleware"
	"github.com/benmouhabdel/heec-manager/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	HealthHandler      *handler.HealthHandler
	AuthHandler        *handler.AuthHandler
	DepartementHandler *handler.DepartementHandler
	FiliereHandler     *handler.FiliereHandler
	ModuleHandler      *handler.ModuleHandler
	SeanceHandler      *handler.SeanceHandler
	UserHandler        *handler.UserHandler
	RoleHandler        *handler.RoleHandler
	ActivityHandler    *handler.ActivityHandler
	DashboardHandler   *handler.DashboardHandler
	JWTMiddleware      fiber.Handler
	AdminMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application. Everything under
// /api/v1 except login and health requires a valid token; management routes
// additionally require administrative access.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	if deps.HealthHandler != nil {
		deps.HealthHandler.Register(api)
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	adminMiddleware := deps.AdminMiddleware
	if adminMiddleware == nil {
		adminMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth.Group("", middleware.RateLimit("auth", 10, time.Minute)))
		deps.AuthHandler.RegisterProtected(auth.Group("", jwtMiddleware))
	}

	admin := api.Group("", jwtMiddleware, adminMiddleware)

	if deps.DepartementHandler != nil {
		deps.DepartementHandler.Register(admin.Group("/departements"))
	}
	if deps.FiliereHandler != nil {
		deps.FiliereHandler.Register(admin.Group("/filieres"))
	}
	if deps.ModuleHandler != nil {
		deps.ModuleHandler.Register(admin.Group("/modules"))
	}
	if deps.SeanceHandler != nil {
		deps.SeanceHandler.Register(admin.Group("/seances"))
	}
	if deps.UserHandler != nil {
		deps.UserHandler.Register(admin.Group("/users"))
	}
	if deps.RoleHandler != nil {
		deps.RoleHandler.Register(admin.Group("/roles"))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(admin.Group("/activites"))
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(admin.Group("/dashboard"))
	}
}
