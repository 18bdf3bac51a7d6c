package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AljAtok/spa-back-end-sub001/internal/handler/middleware"
	"github.com/AljAtok/spa-back-end-sub001/internal/service"
)

// SetupRoutes registers all routes. Capability requirements are attached at
// registration and evaluated by the permission middleware, never in handlers.
func SetupRoutes(
	app *fiber.App,
	authHandler *AuthHandler,
	sessionHandler *SessionHandler,
	userHandler *UserHandler,
	locationHandler *LocationHandler,
	healthHandler *HealthHandler,
	authMiddleware fiber.Handler,
	permissionService *service.PermissionService,
	locationService *service.LocationService,
) {
	// Health checks (public)
	app.Get("/health", healthHandler.Health)
	app.Get("/ready", healthHandler.Ready)

	// API v1
	api := app.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh-token", authHandler.RefreshToken)
	auth.Post("/logout", authMiddleware, authHandler.Logout)
	auth.Post("/logout-all", authMiddleware, authHandler.LogoutAll)
	auth.Post("/logout-session/:id", authMiddleware, sessionHandler.LogoutSession)
	auth.Get("/sessions", authMiddleware, sessionHandler.ListSessions)

	// User routes. Switching another user's access key takes USERS/EDIT;
	// the caller's own account is exempt.
	users := api.Group("/users", authMiddleware)
	users.Put("/:id/change-access-key",
		middleware.RequirePermission(permissionService, service.RequireUnlessSelf("USERS", "EDIT")),
		userHandler.ChangeAccessKey)

	// Location routes
	locations := api.Group("/locations", authMiddleware)
	locations.Get("/",
		middleware.RequirePermission(permissionService, service.Require("LOCATIONS", "VIEW")),
		locationHandler.List)
	locations.Patch("/:id/toggle-status",
		middleware.RequirePermission(permissionService, service.RequireToggle("LOCATIONS", locationService)),
		locationHandler.ToggleStatus)
}
