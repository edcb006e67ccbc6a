package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminTokenHeader carries the admin shared secret.
const AdminTokenHeader = "X-Admin-Token"

// AdminRequired is a Fiber middleware that only lets requests through when
// AdminTokenHeader equals token. With no token configured every request fails
// with 500, since the server cannot tell an admin from anyone else.
func AdminRequired(token string, lg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			lg.Error("Admin request rejected: ADMIN_TOKEN is not set", zap.String("path", c.Path()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "ADMIN_TOKEN not set on server",
			})
		}

		supplied := c.Get(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: invalid admin token",
			})
		}

		return c.Next()
	}
}
