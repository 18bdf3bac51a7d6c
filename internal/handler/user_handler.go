package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/AljAtok/spa-back-end-sub001/internal/service"
	"github.com/AljAtok/spa-back-end-sub001/pkg/validator"
)

type UserHandler struct {
	accessKeyService *service.AccessKeyService
	validator        *validator.Validator
}

func NewUserHandler(accessKeyService *service.AccessKeyService, validator *validator.Validator) *UserHandler {
	return &UserHandler{
		accessKeyService: accessKeyService,
		validator:        validator,
	}
}

// ChangeAccessKey switches which access key a user is scoped to. When the
// caller switches their own key, the current session gets a replacement
// access token in-place; switching someone else's key only reseeds their
// next login.
// PUT /api/v1/users/:id/change-access-key
func (h *UserHandler) ChangeAccessKey(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return unauthorized(c)
	}

	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	var req struct {
		AccessKeyID int64 `json:"access_key_id" validate:"required,gt=0"`
	}

	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.accessKeyService.ChangeAccessKey(c.Context(), userID, req.AccessKeyID, claims.UserID, claims.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": service.ErrUserNotFound.Error(),
			})
		case errors.Is(err, service.ErrAccessKeyNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": service.ErrAccessKeyNotFound.Error(),
			})
		case errors.Is(err, service.ErrAccessKeyNotGranted):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": service.ErrAccessKeyNotGranted.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to change access key",
			})
		}
	}

	return c.JSON(result)
}
