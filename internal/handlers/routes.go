package handlers

import (
	"context"
	"log"
	"time"

	"lolitems/internal/middleware"
	"lolitems/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Auth  *services.AuthService
	Items *services.ItemService
	Users *services.UserService

	// Ping reports storage health on /health. Optional.
	Ping func(ctx context.Context) error
}

// NewApp builds the Fiber application with every route registered.
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "lolitems",
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	// Request logs follow the standard logger so tests can silence them.
	app.Use(logger.New(logger.Config{Output: log.Writer()}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to LOL items API"})
	})
	app.Get("/health", healthHandler(deps.Ping))

	apiV1 := app.Group("/api/v1")
	active := middleware.ActiveRequired(deps.Auth)

	NewAuthHandler(deps.Auth).RegisterRoutes(apiV1)
	NewItemHandler(deps.Items).RegisterRoutes(apiV1, active)
	NewUserHandler(deps.Users).RegisterRoutes(apiV1, active)

	return app
}

func healthHandler(ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
		}
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				log.Printf("Health check failed: %v", err)
				body["status"] = "unhealthy"
				body["database"] = "unreachable"
				return c.Status(fiber.StatusServiceUnavailable).JSON(body)
			}
		}
		return c.JSON(body)
	}
}
