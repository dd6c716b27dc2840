// middleware/user_context.go
package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// UserContext extracts the authenticated user's id set by the gateway and
// attaches it to the request context. Routes behind this middleware can rely
// on c.Locals("user_id") being non-empty.
func UserContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through the gateway with auth context",
			})
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}
