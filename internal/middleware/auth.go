package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/ario/internal/config"
	"github.com/example/ario/internal/utils"
)

const userContextKey = "currentUser"

// AuthUser is the authenticated identity loaded into request context.
type AuthUser struct {
	ID    uuid.UUID
	Email string
}

// AuthMiddleware validates session tokens and loads the authenticated
// identity into context. Requests are rejected before reaching any handler.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(userContextKey, AuthUser{ID: claims.UserID, Email: claims.Email})
		return c.Next()
	}
}

// CurrentUser extracts the authenticated identity from context.
func CurrentUser(c *fiber.Ctx) (AuthUser, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return AuthUser{}, false
	}

	if user, ok := value.(AuthUser); ok {
		return user, true
	}

	return AuthUser{}, false
}
