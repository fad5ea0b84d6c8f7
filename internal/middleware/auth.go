package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// AdminKey guards operator endpoints with a shared header key. An empty
// expected key leaves the route open, preserving the historical behavior of
// the relay; production deployments should always set one.
func AdminKey(expectedKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if expectedKey == "" {
			return c.Next()
		}
		key := c.Get("X-Admin-Key")
		if key == "" || key != expectedKey {
			return c.Status(403).JSON(fiber.Map{"error": "invalid admin key"})
		}
		return c.Next()
	}
}
