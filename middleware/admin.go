// middleware/admin.go
package middleware

import (
	"log"
	"os"
	"strings"

	"arena-clash/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminOnly allows only the platform administrator through. Admin status is
// not stored on the user record: it is derived from the reserved ADMIN_EMAIL
// address, compared case-insensitively against the calling user's email.
func AdminOnly(db *gorm.DB) fiber.Handler {
	adminEmail := strings.ToLower(os.Getenv("ADMIN_EMAIL"))
	if adminEmail == "" {
		log.Fatal("ADMIN_EMAIL is not set — admin routes cannot be guarded")
	}

	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing user context"})
		}
		var user models.User
		if err := db.First(&user, "uid = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unknown user"})
		}
		if strings.ToLower(user.Email) != adminEmail {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		}
		return c.Next()
	}
}
