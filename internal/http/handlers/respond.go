package handlers

import (
	"errors"
	"strings"
	"time"

	applog "storefront/internal/log"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	cookieOwner  = "owner_session"
	cookieDevice = "device_id"
	cookiePhone  = "customer_phone"
)

// failErr maps service-level failures onto the HTTP taxonomy. Unexpected
// errors are logged and returned as a generic 500; nothing crashes the
// request process.
func failErr(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		applog.Security(c, action, map[string]any{"reason": "validation"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrAuth):
		applog.Security(c, action, map[string]any{"reason": "auth"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		applog.Error(c, action, err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

func setCookie(c *fiber.Ctx, name, value string, maxAge time.Duration, sameSite string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		SameSite: sameSite,
		Secure:   secure,
		MaxAge:   int(maxAge.Seconds()),
	})
}

func clearCookie(c *fiber.Ctx, name, sameSite string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: sameSite,
		Secure:   secure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// credentials gathers everything a request may present for identity
// resolution.
func credentials(c *fiber.Ctx) services.Credentials {
	return services.Credentials{
		OwnerToken:    c.Cookies(cookieOwner),
		IdentityToken: bearerToken(c),
		Phone:         c.Cookies(cookiePhone),
		DeviceID:      c.Cookies(cookieDevice),
	}
}
