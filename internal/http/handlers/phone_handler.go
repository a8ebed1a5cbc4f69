package handlers

import (
	"database/sql"
	"errors"
	"time"

	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// PhoneHandler implements the phone-subject scheme. Trust-on-first-use:
// only the first login for a phone goes through a code challenge,
// returning users are logged in immediately.
type PhoneHandler struct {
	Verify    *services.VerifyService
	Phones    *repos.PhoneRepo
	EchoCodes bool
	Secure    bool
}

const phoneCookieTTL = 30 * 24 * time.Hour

// Start handles phone submission: existing users get a session cookie
// right away, new phones get a pending code.
func (h *PhoneHandler) Start(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	phone, ok := validate.Phone(req.Phone)
	if !ok {
		return badRequest(c, "Phone number is required")
	}

	u, err := h.Phones.Get(phone)
	if err == nil {
		// The verify step may be reached via an external redirect, so the
		// phone cookie uses a lax same-site policy.
		setCookie(c, cookiePhone, phone, phoneCookieTTL, fiber.CookieSameSiteLaxMode, h.Secure)
		applog.Audit(c, "phone.login", map[string]any{"phone": phone})
		return c.JSON(fiber.Map{
			"success":   true,
			"isNewUser": false,
			"loggedIn":  true,
			"user":      fiber.Map{"name": u.Name, "phone": u.Phone},
		})
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return failErr(c, "phone.start", err)
	}

	code, err := h.Verify.RequestCode(phone, "phone")
	if err != nil {
		return failErr(c, "phone.start", err)
	}
	applog.Info(c, "phone.code.requested", map[string]any{"phone": phone})

	resp := fiber.Map{"success": true, "isNewUser": true, "loggedIn": false}
	if h.EchoCodes {
		resp["code"] = code
	}
	return c.JSON(resp)
}

// VerifyCode completes sign-up for a new phone (name required, row
// created atomically with code consumption) and sets the session cookie.
func (h *PhoneHandler) VerifyCode(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
		Name  string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	phone, ok := validate.Phone(req.Phone)
	if !ok || req.Code == "" {
		return badRequest(c, "Phone number and code are required")
	}

	valid, err := h.Verify.VerifyCode(phone, req.Code)
	if err != nil {
		return failErr(c, "phone.verify", err)
	}
	if !valid {
		applog.Security(c, "phone.verify.fail", map[string]any{"phone": phone})
		return badRequest(c, "Invalid verification code")
	}

	exists, err := h.Phones.Exists(phone)
	if err != nil {
		return failErr(c, "phone.verify", err)
	}
	if !exists {
		name, ok := validate.Name(req.Name)
		if !ok {
			return badRequest(c, "Name is required for new users")
		}
		if err := h.Phones.CreateVerified(phone, name); err != nil {
			return failErr(c, "phone.verify", err)
		}
	} else if err := h.Verify.Consume(phone); err != nil {
		return failErr(c, "phone.verify", err)
	}

	u, err := h.Phones.Get(phone)
	if err != nil {
		return failErr(c, "phone.verify", err)
	}

	setCookie(c, cookiePhone, phone, phoneCookieTTL, fiber.CookieSameSiteLaxMode, h.Secure)
	applog.Audit(c, "phone.signup", map[string]any{"phone": phone})
	return c.JSON(fiber.Map{
		"success": true,
		"user":    fiber.Map{"name": u.Name, "phone": u.Phone},
	})
}
