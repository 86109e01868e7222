package handlers

import (
	"errors"
	"net/http"

	"posts-api/internal/services"
	"posts-api/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto the API's error bodies. A missing
// record is a 404 without details; everything else is a 400 carrying the
// cause, store failures included.
func respondError(c *fiber.Ctx, action string, err error) error {
	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		return utils.SendError(c, http.StatusNotFound, notFound.Entity+" not found", "")
	}

	var storeErr *services.StoreError
	if errors.As(err, &storeErr) {
		utils.LogError(storeErr, action)
	}
	return utils.SendError(c, http.StatusBadRequest, "Error "+action, err.Error())
}

func invalidBody(c *fiber.Ctx, action string) error {
	return utils.SendError(c, http.StatusBadRequest, "Error "+action, "invalid request body")
}
