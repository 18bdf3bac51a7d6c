package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/AljAtok/spa-back-end-sub001/internal/service"
)

type SessionHandler struct {
	authService *service.AuthService
}

func NewSessionHandler(authService *service.AuthService) *SessionHandler {
	return &SessionHandler{
		authService: authService,
	}
}

// ListSessions lists all active sessions of the caller
// GET /api/v1/auth/sessions
func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return unauthorized(c)
	}

	sessions, err := h.authService.ListSessions(c.Context(), claims.UserID, claims.SessionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve sessions",
		})
	}

	return c.JSON(fiber.Map{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// LogoutSession retires one named session of the caller
// POST /api/v1/auth/logout-session/:id
func (h *SessionHandler) LogoutSession(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid session ID")
	}

	if err := h.authService.LogoutSession(c.Context(), claims.UserID, sessionID); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to logout session",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Session logged out successfully",
	})
}
