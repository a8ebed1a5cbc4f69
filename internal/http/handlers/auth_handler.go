package handlers

import (
	"errors"
	"time"

	applog "storefront/internal/log"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth   *services.AuthService
	Secure bool
}

// Login checks the static owner credentials and sets the 24h session cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	token, err := h.Auth.Login(req.Username, req.Password)
	if errors.Is(err, services.ErrAuth) {
		applog.Security(c, "auth.login.fail", map[string]any{"username": req.Username})
		return unauthorized(c, "Invalid credentials")
	}
	if err != nil {
		return failErr(c, "auth.login", err)
	}

	setCookie(c, cookieOwner, token, 24*time.Hour, fiber.CookieSameSiteStrictMode, h.Secure)
	applog.Audit(c, "auth.login.success", map[string]any{"username": req.Username})
	return c.JSON(fiber.Map{"success": true, "role": "owner"})
}

func (h *AuthHandler) Check(c *fiber.Ctx) error {
	if h.Auth.ValidSession(c.Cookies(cookieOwner)) {
		return c.JSON(fiber.Map{"authenticated": true, "role": "owner"})
	}
	return c.JSON(fiber.Map{"authenticated": false})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(cookieOwner); token != "" {
		_ = h.Auth.Logout(token)
	}
	clearCookie(c, cookieOwner, fiber.CookieSameSiteStrictMode, h.Secure)
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"success": true})
}
