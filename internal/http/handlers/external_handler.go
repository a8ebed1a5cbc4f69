package handlers

import (
	"database/sql"
	"errors"

	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// ExternalHandler onboards accounts backed by the external identity
// provider. The provider authenticates the user; a one-time code
// challenge still gates registration in the store.
type ExternalHandler struct {
	Identity  *services.IdentityService
	Verify    *services.VerifyService
	Externals *repos.ExternalRepo
	EchoCodes bool
}

// external code subjects are namespaced so they can never collide with
// device ids or phone numbers
func externalSubject(externalID string) string { return "ext_" + externalID }

func (h *ExternalHandler) requireSubject(c *fiber.Ctx) (string, error) {
	extID, ok := h.Identity.ExternalSubject(bearerToken(c))
	if !ok {
		applog.Security(c, "external.auth.fail", nil)
		return "", unauthorized(c, "Not authenticated with identity provider")
	}
	return extID, nil
}

// Get reports whether the authenticated identity is registered here.
func (h *ExternalHandler) Get(c *fiber.Ctx) error {
	extID, errResp := h.requireSubject(c)
	if errResp != nil {
		return errResp
	}

	u, err := h.Externals.Get(extID)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(fiber.Map{"exists": false})
	}
	if err != nil {
		return failErr(c, "external.get", err)
	}
	return c.JSON(fiber.Map{
		"exists": true,
		"user":   fiber.Map{"name": u.Name, "phone": u.Phone, "email": u.Email},
	})
}

// RequestCode issues a one-time registration code for a not-yet-registered
// identity.
func (h *ExternalHandler) RequestCode(c *fiber.Ctx) error {
	extID, errResp := h.requireSubject(c)
	if errResp != nil {
		return errResp
	}

	exists, err := h.Externals.Exists(extID)
	if err != nil {
		return failErr(c, "external.request_code", err)
	}
	if exists {
		return badRequest(c, "User already registered")
	}

	code, err := h.Verify.RequestCode(externalSubject(extID), "external")
	if err != nil {
		return failErr(c, "external.request_code", err)
	}
	applog.Info(c, "external.code.requested", map[string]any{"external_id": extID})

	resp := fiber.Map{"success": true, "message": "Verification code sent to store owner"}
	if h.EchoCodes {
		resp["code"] = code
	}
	return c.JSON(resp)
}

// Create registers the identity after the code challenge. Code
// consumption and row creation happen in one transaction.
func (h *ExternalHandler) Create(c *fiber.Ctx) error {
	extID, errResp := h.requireSubject(c)
	if errResp != nil {
		return errResp
	}

	exists, err := h.Externals.Exists(extID)
	if err != nil {
		return failErr(c, "external.create", err)
	}
	if exists {
		return badRequest(c, "User already registered")
	}

	var req struct {
		Code  string `json:"code"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Code == "" || req.Email == "" || req.Name == "" || req.Phone == "" {
		return badRequest(c, "Code, email, name, and phone are required")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return badRequest(c, "Invalid email")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "Invalid name")
	}
	phone, ok := validate.Phone(req.Phone)
	if !ok {
		return badRequest(c, "Invalid phone number")
	}

	subject := externalSubject(extID)
	valid, err := h.Verify.VerifyCode(subject, req.Code)
	if err != nil {
		return failErr(c, "external.create", err)
	}
	if !valid {
		applog.Security(c, "external.create.fail", map[string]any{"external_id": extID})
		return badRequest(c, "Invalid verification code")
	}

	if err := h.Externals.CreateVerified(subject, extID, email, name, phone); err != nil {
		return failErr(c, "external.create", err)
	}

	applog.Audit(c, "external.registered", map[string]any{"external_id": extID})
	return c.JSON(fiber.Map{
		"success": true,
		"user":    fiber.Map{"name": name, "phone": phone, "email": email},
	})
}
