package middleware

import (
	"log"
	"strings"

	"gallery/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the context key the auth middleware sets for downstream
// handlers.
const UserIDKey = "user_id"

// AuthRequired is a Fiber middleware that verifies the bearer token and
// resolves it to a user row. On any failure it responds 401 and the
// downstream handler never runs.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		user, err := authService.Authenticate(tokenString)
		if err != nil {
			log.Printf("Token authentication failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(UserIDKey, user.ID)
		return c.Next()
	}
}

// OptionalAuth resolves the bearer token when one is present but never
// rejects the request. Routes behind it render per-user state only for
// authenticated callers.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c); ok {
			if user, err := authService.Authenticate(tokenString); err == nil {
				c.Locals(UserIDKey, user.ID)
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's id from the request context, or ""
// when the request is anonymous.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
