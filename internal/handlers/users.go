package handlers

import (
	"net/http"

	"posts-api/internal/models"
	"posts-api/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CreateUserHandler handles POST /users
func CreateUserHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c, "creating user")
		}

		user, err := userService.Create(c.Context(), req)
		if err != nil {
			return respondError(c, "creating user", err)
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "User created", "user": user})
	}
}

// GetUserHandler handles GET /users/:id
func GetUserHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := userService.Get(c.Context(), c.Params("id"))
		if err != nil {
			return respondError(c, "fetching user", err)
		}
		return c.JSON(fiber.Map{"user": user})
	}
}
