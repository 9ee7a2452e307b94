package auth

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"portaldesa.com/gate/pg/model"
)

// SetupAuthRoutes registers the credential endpoints on a Fiber app. These
// are JSON API routes and respond with status codes, not page redirects; the
// page-level boundary is the guard middleware in the fiber subpackage.
func SetupAuthRoutes(app *fiber.App, db model.DB, settings *Settings, logger *slog.Logger) error {
	tokens, err := settings.NewTokenService()
	if err != nil {
		return err
	}

	service := NewAuthService(db, tokens, settings.TokenTTL)
	handlers := NewAuthHandlers(service, logger)

	group := app.Group("/auth")
	group.Post("/login", handlers.Login)
	group.Post("/logout", handlers.Logout)
	group.Get("/whoami", handlers.WhoAmI)

	// User management requires the admin role.
	group.Post("/users",
		requireRoleMiddleware(service, RoleAdmin),
		handlers.CreateUser,
	)

	return nil
}

// requireRoleMiddleware gates an API route on a verified credential carrying
// at least the given role. Same predicate as the page boundary, JSON errors
// instead of redirects.
func requireRoleMiddleware(service *AuthService, min Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := credentialFromCtx(c)
		if !ok {
			return handleAuthError(c, ErrNoCredential)
		}

		claims, err := service.WhoAmI(c.Context(), token)
		if err != nil {
			return handleAuthError(c, err)
		}

		role, ok := NormalizeRole(claims.Role)
		if !ok {
			return handleAuthError(c, ErrUnknownRole)
		}
		if !AtLeast(role, min) {
			return handleAuthError(c, ErrInsufficientRole)
		}

		c.Locals("auth_claims", claims)
		return c.Next()
	}
}
