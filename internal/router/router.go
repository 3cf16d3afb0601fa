package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/attendly/attendly-api/internal/config"
	"github.com/attendly/attendly-api/internal/handler"
	"github.com/attendly/attendly-api/internal/middleware"
	"github.com/attendly/attendly-api/internal/models"
	"github.com/attendly/attendly-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ClassHandler   *handler.ClassHandler
	SessionHandler *handler.SessionHandler
	StudentHandler *handler.StudentHandler
	JWTMiddleware  fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	teacher := api.Group("/teacher", jwtMiddleware, middleware.RequireRole(models.RoleTeacher))
	if deps.ClassHandler != nil {
		deps.ClassHandler.Register(teacher.Group("/classes"))
	}
	if deps.SessionHandler != nil {
		deps.SessionHandler.Register(teacher)
	}

	if deps.StudentHandler != nil {
		student := api.Group("/student", jwtMiddleware, middleware.RequireRole(models.RoleStudent))
		// Client retries on flaky classroom networks make duplicate
		// submissions common; keep them from hammering the store.
		student.Use("/attendance", middleware.RateLimit("attendance_mark", 10, time.Minute))
		deps.StudentHandler.Register(student)
	}
}
