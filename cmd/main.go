package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"

	"github.com/hcastells/fincas/internal/api/handlers"
	"github.com/hcastells/fincas/internal/api/router"
	"github.com/hcastells/fincas/internal/config"
	"github.com/hcastells/fincas/internal/middleware"
	"github.com/hcastells/fincas/internal/service"
	"github.com/hcastells/fincas/internal/storage"
	"github.com/hcastells/fincas/internal/token"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWT.Secret == "change-me" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	// Initialize storage
	dsn := storage.BuildDSN(cfg.Database)
	store, err := storage.NewGormStorage(dsn)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Seed bootstrap data
	if cfg.Seed.Enabled {
		if err := store.Seed(context.Background(), cfg.Seed); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Rate-limit store: Redis when reachable, in-process memory otherwise
	var limitStore middleware.RateLimitStore
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Println("[WARN] Redis unavailable. Falling back to in-memory rate limiting.")
		limitStore = middleware.NewMemoryStore()
	} else {
		limitStore = middleware.NewRedisStore(rdb)
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Fincas",
	})

	// Middleware
	app.Use(cors.New())
	app.Use(logger.New())

	// Services
	tokens := token.NewService(cfg.JWT.Secret, cfg.JWT.Expiration)
	payments := service.NewPaymentService(store)

	// Handlers and middleware
	authHandler := handlers.NewAuthHandler(store, tokens)
	userHandler := handlers.NewUserHandler(store)
	tenantHandler := handlers.NewTenantHandler(store)
	propertyHandler := handlers.NewPropertyHandler(store)
	paymentHandler := handlers.NewPaymentHandler(payments)
	authMiddleware := middleware.NewAuthMiddleware(tokens, store)
	rateLimiter := middleware.NewRateLimiter(limitStore, cfg.Server.RateLimit.Enabled)

	// Router
	apiRouter := router.NewRouter(
		app,
		authHandler,
		userHandler,
		tenantHandler,
		propertyHandler,
		paymentHandler,
		authMiddleware,
		rateLimiter,
	)
	apiRouter.SetupRoutes()

	// Start server
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
