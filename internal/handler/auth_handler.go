package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/AljAtok/spa-back-end-sub001/internal/service"
	"github.com/AljAtok/spa-back-end-sub001/pkg/validator"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *validator.Validator
}

func NewAuthHandler(authService *service.AuthService, validator *validator.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	resp, err := h.authService.Login(c.Context(), req, c.IP(), c.Get("User-Agent"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountInactive):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": service.ErrAccountInactive.Error(),
			})
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": service.ErrInvalidCredentials.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "login failed",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// RefreshToken handles token pair rotation
// POST /api/v1/auth/refresh-token
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	resp, err := h.authService.RefreshToken(c.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return unauthorized(c)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "refresh failed",
		})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// Logout retires the session named in the bearer token's session claim
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.authService.Logout(c.Context(), claims, currentToken(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "logout failed",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// LogoutAll retires every active session of the caller
// POST /api/v1/auth/logout-all
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.authService.LogoutAll(c.Context(), claims.UserID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "logout failed",
		})
	}

	return c.JSON(fiber.Map{
		"message": "All sessions logged out successfully",
	})
}
