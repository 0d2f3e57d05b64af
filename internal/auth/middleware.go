package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-ticket-service/internal/domain"
)

const (
	localsUserID = "auth_user_id"
	localsRole   = "auth_role"
)

// RequireAuth validates the bearer token and stores the principal on the
// request context.
func RequireAuth(issuer *TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := issuer.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(localsUserID, claims.UserID)
		c.Locals(localsRole, claims.Role)
		return c.Next()
	}
}

// RequireRole restricts a route to the given roles. Must run after
// RequireAuth.
func RequireRole(roles ...domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := CurrentRole(c)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// CurrentUserID returns the authenticated user id, empty when anonymous.
func CurrentUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(localsUserID).(string); ok {
		return id
	}
	return ""
}

// CurrentRole returns the authenticated role.
func CurrentRole(c *fiber.Ctx) domain.UserRole {
	if role, ok := c.Locals(localsRole).(string); ok {
		return domain.UserRole(role)
	}
	return ""
}
