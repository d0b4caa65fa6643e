package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"

	"lolitems/internal/config"
	"lolitems/internal/database"
	"lolitems/internal/handlers"
	"lolitems/internal/models"
	"lolitems/internal/repositories"
	"lolitems/internal/services"
	"lolitems/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	v := viper.New()
	v.AutomaticEnv()
	cfg, err := config.Load(v)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	app, cleanup, err := newApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer cleanup()

	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newApp wires storage, services and handlers. The returned cleanup
// releases the database and RabbitMQ connections.
func newApp(cfg config.Config) (*fiber.App, func(), error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	itemRepo := repositories.NewGORMItemRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	authService, err := services.NewAuthService(userRepo, services.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Algorithm:  cfg.JWT.Algorithm,
		TokenTTL:   cfg.JWT.AccessTokenTTL,
		BcryptCost: cfg.BcryptCost,
	})
	if err != nil {
		database.Close(db)
		return nil, nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	// Item events are optional; without RABBITMQ_URL the publisher stays nil.
	var publisher services.ItemEventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			database.Close(db)
			return nil, nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		publisher = mqClient

		log.Println("Starting RabbitMQ consumer for item events...")
		if err := mqClient.ConsumeItemEvents(logItemEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	userService := services.NewUserService(userRepo, authService)
	if cfg.Bootstrap.Enabled() {
		created, err := userService.EnsureUser(context.Background(), models.UserInput{
			UserName: cfg.Bootstrap.UserName,
			Password: cfg.Bootstrap.Password,
		})
		if err != nil {
			if mqClient != nil {
				mqClient.Close()
			}
			database.Close(db)
			return nil, nil, fmt.Errorf("failed to create bootstrap user %s: %w", cfg.Bootstrap.UserName, err)
		}
		if created {
			log.Printf("Created bootstrap user %s", cfg.Bootstrap.UserName)
		}
	}

	app := handlers.NewApp(handlers.Dependencies{
		Auth:  authService,
		Items: services.NewItemService(itemRepo, publisher),
		Users: userService,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})

	cleanup := func() {
		if mqClient != nil {
			if err := mqClient.Close(); err != nil {
				log.Printf("Error closing RabbitMQ client: %v", err)
			}
		}
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
	return app, cleanup, nil
}

// logItemEvent is the audit trail for item changes.
func logItemEvent(event models.ItemEvent) error {
	log.Printf("Item event %s: %s %s at %s", event.ID, event.Type, event.ItemName, event.OccurredAt.Format(time.RFC3339))
	return nil
}
