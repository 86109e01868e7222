package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is satisfied by every db.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler always answers 200; the store state is informational only.
func HealthHandler(store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		status := "up"
		if err := store.Ping(ctx); err != nil {
			status = "down"
		}
		return c.JSON(fiber.Map{"status": "ok", "store": status})
	}
}
