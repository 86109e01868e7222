package utils

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SendError writes {error, details} with the given status.
func SendError(c *fiber.Ctx, status int, message string, details string) error {
	return c.Status(status).JSON(ErrorResponse{Error: message, Details: details})
}

// LogError logs an error if it's not nil
func LogError(err error, context string) {
	if err != nil {
		log.Printf("Error [%s]: %v", context, err)
	}
}
