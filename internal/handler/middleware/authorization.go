package middleware

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
	"github.com/AljAtok/spa-back-end-sub001/internal/service"
)

// RequirePermission attaches a capability requirement to a route. The one
// evaluator behind it resolves fixed actions directly and toggle requirements
// through a pre-read of the target resource (the ":id" route parameter).
// The access key in scope is the one carried by the caller's token claims.
func RequirePermission(permissionService *service.PermissionService, req service.Requirement) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*domain.Claims)
		if !ok {
			return unauthorized(c)
		}

		var resourceID int64
		if req.Toggle != nil || req.SelfExempt {
			id, err := strconv.ParseInt(c.Params("id"), 10, 64)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid resource id",
				})
			}
			resourceID = id
		}

		if req.SelfExempt && resourceID == claims.UserID {
			return c.Next()
		}

		err := permissionService.Evaluate(c.Context(), claims.UserID, req, resourceID, claims.AccessKeyID)
		if err == nil {
			return c.Next()
		}

		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			// Forbidden responses name the missing capability for operator
			// diagnosability; nothing about other users' grants leaks.
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, service.ErrUnknownModule), errors.Is(err, service.ErrUnknownAction):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, service.ErrLocationNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			// Fail closed on store errors.
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to check permission",
			})
		}
	}
}
