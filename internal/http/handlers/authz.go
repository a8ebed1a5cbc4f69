package handlers

import (
	applog "storefront/internal/log"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireOwner rejects any request without a live owner session.
func RequireOwner(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !auth.ValidSession(c.Cookies(cookieOwner)) {
			applog.Security(c, "access.denied.owner", nil)
			return unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}
