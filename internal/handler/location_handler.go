package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/AljAtok/spa-back-end-sub001/internal/service"
)

type LocationHandler struct {
	locationService *service.LocationService
}

func NewLocationHandler(locationService *service.LocationService) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
	}
}

// List returns all locations
// GET /api/v1/locations
func (h *LocationHandler) List(c *fiber.Ctx) error {
	locations, err := h.locationService.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve locations",
		})
	}

	return c.JSON(fiber.Map{
		"locations": locations,
		"count":     len(locations),
	})
}

// ToggleStatus flips a location between active and inactive. The permission
// middleware has already demanded ACTIVATE or DEACTIVATE based on the row's
// current status.
// PATCH /api/v1/locations/:id/toggle-status
func (h *LocationHandler) ToggleStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "Invalid location ID")
	}

	location, err := h.locationService.ToggleStatus(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLocationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": service.ErrLocationNotFound.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to toggle location status",
		})
	}

	return c.JSON(location)
}
