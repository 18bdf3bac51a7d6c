package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/AljAtok/spa-back-end-sub001/internal/repository"
	"github.com/AljAtok/spa-back-end-sub001/pkg/jwt"
)

// RevocationChecker answers whether a still-live access token has been
// revoked ahead of its natural expiry.
type RevocationChecker interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	IsUserBlacklisted(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error)
}

// AuthMiddleware validates access tokens and checks that the session the
// token was issued for is still usable. Every rejection is a generic
// unauthorized; the caller never learns which precondition failed.
func AuthMiddleware(tokenService *jwt.TokenService, revocation RevocationChecker, sessionRepo repository.SessionRepository, scheme string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != scheme || parts[1] == "" {
			return unauthorized(c)
		}
		token := parts[1]

		claims, err := tokenService.ValidateToken(token)
		if err != nil {
			return unauthorized(c)
		}

		if claims.TokenType != "access" {
			return unauthorized(c)
		}

		if revocation != nil {
			revoked, err := revocation.IsBlacklisted(c.Context(), token)
			if err != nil {
				return checkFailed(c)
			}
			if revoked {
				return unauthorized(c)
			}

			if claims.IssuedAt != nil {
				userRevoked, err := revocation.IsUserBlacklisted(c.Context(), claims.Subject, claims.IssuedAt.Time)
				if err != nil {
					return checkFailed(c)
				}
				if userRevoked {
					return unauthorized(c)
				}
			}
		}

		// Liveness check: a retired session rejects its access tokens
		// immediately, without waiting for them to expire. Legacy tokens
		// issued before session-scoping carry no session claim.
		if claims.SessionID != nil {
			session, err := sessionRepo.GetByID(c.Context(), *claims.SessionID)
			if err != nil || !session.Usable() {
				return unauthorized(c)
			}
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("claims", claims)
		c.Locals("token", token)

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "unauthorized",
	})
}

func checkFailed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "failed to verify token status",
	})
}
