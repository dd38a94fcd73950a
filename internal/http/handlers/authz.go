package handlers

import (
	"dcpstore/internal/domain"
	applog "dcpstore/internal/log"
	"dcpstore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireUser gates the cart API: every durable-cart operation must carry a
// live session or fail with 401 before touching storage.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := auth.CurrentSession(c.Cookies("sid"))
		if !st.LoggedIn {
			applog.Security(c, "access.denied.cart", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		c.Locals("user", st.User)
		return c.Next()
	}
}

// currentUser returns the user attached by RequireUser or the session
// middleware; nil when anonymous.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
