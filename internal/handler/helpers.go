package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
)

// currentClaims pulls the validated token claims stored by the auth
// middleware.
func currentClaims(c *fiber.Ctx) (*domain.Claims, bool) {
	claims, ok := c.Locals("claims").(*domain.Claims)
	return claims, ok
}

// currentToken pulls the raw bearer token stored by the auth middleware.
func currentToken(c *fiber.Ctx) string {
	token, _ := c.Locals("token").(string)
	return token
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "unauthorized",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}
