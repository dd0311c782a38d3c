package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/courierops/internal/config"
	"github.com/example/courierops/internal/models"
	"github.com/example/courierops/internal/store"
	"github.com/example/courierops/internal/utils"
)

const (
	userIDContextKey   = "currentUserID"
	userRoleContextKey = "currentUserRole"
)

// AuthMiddleware validates bearer tokens and loads the authenticated
// credential id and role into the request context. Tokens whose
// credential was deleted since issuance are rejected.
func AuthMiddleware(cfg *config.Config, credentials *store.CredentialStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		userID, role, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		if credentials.FindByID(userID) == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(userIDContextKey, userID)
		c.Locals(userRoleContextKey, role)
		return c.Next()
	}
}

// RequireRoles rejects requests whose authenticated role is not listed.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := CurrentUserRole(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// CurrentUserID extracts the authenticated credential id from context.
func CurrentUserID(c *fiber.Ctx) (string, bool) {
	if id, ok := c.Locals(userIDContextKey).(string); ok && id != "" {
		return id, true
	}
	return "", false
}

// CurrentUserRole extracts the authenticated role from context.
func CurrentUserRole(c *fiber.Ctx) (models.Role, bool) {
	if role, ok := c.Locals(userRoleContextKey).(models.Role); ok && role != "" {
		return role, true
	}
	return "", false
}
