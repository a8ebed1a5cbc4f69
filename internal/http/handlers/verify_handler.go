package handlers

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// VerifyHandler drives the legacy device scheme: request a code, check
// it, then onboard with name and phone. The code is checked at two
// points and only consumed when onboarding completes.
type VerifyHandler struct {
	Verify    *services.VerifyService
	Devices   *repos.DeviceRepo
	Phones    *repos.PhoneRepo
	EchoCodes bool
	Secure    bool
}

func newDeviceID() string {
	return "dev_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Request issues a code to the owner inbox for a new or unverified
// device. Already-verified devices short-circuit without a new code.
func (h *VerifyHandler) Request(c *fiber.Ctx) error {
	var req struct {
		DeviceID string `json:"deviceId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.DeviceID != "" {
		if d, err := h.Devices.Get(req.DeviceID); err == nil {
			return c.JSON(fiber.Map{
				"verified":     true,
				"hasOnboarded": d.Onboarded(),
				"deviceId":     req.DeviceID,
			})
		}
	}

	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = newDeviceID()
	}

	code, err := h.Verify.RequestCode(deviceID, "device")
	if err != nil {
		return failErr(c, "verify.request", err)
	}
	applog.Info(c, "verify.request", map[string]any{"device_id": deviceID})

	resp := fiber.Map{
		"verified": false,
		"deviceId": deviceID,
		"message":  "Verification code sent to owner. Please enter the code.",
	}
	if h.EchoCodes {
		resp["code"] = code
	}
	return c.JSON(resp)
}

// Code checks a submitted code. Success marks the device verified but
// does not consume the code; onboarding does that.
func (h *VerifyHandler) Code(c *fiber.Ctx) error {
	var req struct {
		DeviceID string `json:"deviceId"`
		Code     string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.DeviceID == "" || req.Code == "" {
		return badRequest(c, "Device ID and code are required")
	}

	ok, err := h.Verify.VerifyCode(req.DeviceID, req.Code)
	if err != nil {
		return failErr(c, "verify.code", err)
	}
	if !ok {
		applog.Security(c, "verify.code.fail", map[string]any{"device_id": req.DeviceID})
		return unauthorized(c, "Invalid verification code")
	}

	if err := h.Devices.MarkVerified(req.DeviceID); err != nil {
		return failErr(c, "verify.code", err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Code verified. Please complete onboarding."})
}

// Onboard re-checks the code, stores the customer profile and consumes
// the code in the same transaction, then sets the 1-year device cookie.
func (h *VerifyHandler) Onboard(c *fiber.Ctx) error {
	var req struct {
		DeviceID string `json:"deviceId"`
		Code     string `json:"code"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.DeviceID == "" || req.Code == "" || req.Name == "" || req.Phone == "" {
		return badRequest(c, "All fields are required")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "Invalid name")
	}
	phone, ok := validate.Phone(req.Phone)
	if !ok {
		return badRequest(c, "Invalid phone number")
	}

	valid, err := h.Verify.VerifyCode(req.DeviceID, req.Code)
	if err != nil {
		return failErr(c, "customer.onboard", err)
	}
	if !valid {
		applog.Security(c, "customer.onboard.fail", map[string]any{"device_id": req.DeviceID})
		return unauthorized(c, "Invalid or expired verification code")
	}

	if err := h.Devices.CompleteOnboarding(req.DeviceID, name, phone); err != nil {
		return failErr(c, "customer.onboard", err)
	}

	setCookie(c, cookieDevice, req.DeviceID, 365*24*time.Hour, fiber.CookieSameSiteStrictMode, h.Secure)
	applog.Audit(c, "customer.onboard", map[string]any{"device_id": req.DeviceID})
	return c.JSON(fiber.Map{"success": true, "message": "Onboarding complete. Welcome!"})
}

// Check reports the caller's customer status across the phone and
// device schemes.
func (h *VerifyHandler) Check(c *fiber.Ctx) error {
	if phone := c.Cookies(cookiePhone); phone != "" {
		u, err := h.Phones.Get(phone)
		if err == nil {
			return c.JSON(fiber.Map{
				"authenticated": true,
				"hasOnboarded":  true,
				"name":          u.Name,
				"phone":         u.Phone,
			})
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return failErr(c, "customer.check", err)
		}
	}

	if deviceID := c.Cookies(cookieDevice); deviceID != "" {
		d, err := h.Devices.Get(deviceID)
		if err == nil {
			resp := fiber.Map{
				"verified":     true,
				"hasOnboarded": d.Onboarded(),
				"deviceId":     deviceID,
			}
			if d.Onboarded() {
				resp["name"] = d.Name
				resp["phone"] = d.Phone
			}
			return c.JSON(resp)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return failErr(c, "customer.check", err)
		}
	}

	return c.JSON(fiber.Map{"authenticated": false})
}
