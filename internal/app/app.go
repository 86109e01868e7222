package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"posts-api/internal/db"
	"posts-api/internal/handlers"
	"posts-api/internal/metrics"
	"posts-api/internal/services"
	"posts-api/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// New builds the Fiber app with every route wired to store.
func New(cfg Config, store db.Store) *fiber.App {
	userService := services.NewUserService(store)
	postService := services.NewPostService(store, int64(cfg.MaxPageLimit))

	app := fiber.New(fiber.Config{
		AppName:      "posts-api",
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())
	app.Use(metrics.Middleware())

	// Routes
	app.Post("/users", handlers.CreateUserHandler(userService))
	app.Get("/users/:id", handlers.GetUserHandler(userService))

	app.Post("/posts", handlers.CreatePostHandler(postService))
	app.Get("/posts", handlers.ListPostsHandler(postService))
	app.Get("/posts/:id", handlers.GetPostHandler(postService))
	app.Put("/posts/:id", handlers.UpdatePostHandler(postService))
	app.Delete("/posts/:id", handlers.DeletePostHandler(postService))

	// Health Check
	app.Get("/health", handlers.HealthHandler(store))
	app.Get("/metrics", metrics.Handler())

	return app
}

// Run opens the store, serves until SIGINT/SIGTERM and then shuts down.
func Run(cfg Config) error {
	store, err := db.Open(context.Background(), cfg.StoreOptions())
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		utils.LogError(store.Close(ctx), "close store")
	}()

	app := New(cfg, store)

	// Start Server
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Graceful Shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c // Block until signal
	log.Println("Gracefully shutting down...")
	_ = app.Shutdown()
	log.Println("Server shutdown complete")
	return nil
}

// Migrate ensures indexes (MongoDB) or tables (PostgreSQL) exist.
func Migrate(ctx context.Context, cfg Config) error {
	store, err := db.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	log.Printf("Schema ready for %s store", cfg.StoreDriver)
	return nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return utils.SendError(c, code, http.StatusText(code), err.Error())
}
