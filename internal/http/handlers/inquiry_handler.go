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

type InquiryHandler struct {
	Identity  *services.IdentityService
	Inquiries *services.InquiryService
	Phones    *repos.PhoneRepo
}

// ListForOwner returns all inquiries newest-first. Owner-only.
func (h *InquiryHandler) ListForOwner(c *fiber.Ctx) error {
	inquiries, err := h.Inquiries.ListAll()
	if err != nil {
		return failErr(c, "inquiry.list", err)
	}
	return c.JSON(fiber.Map{"inquiries": inquiries})
}

// Create files an inquiry for whichever customer identity the request
// resolves to. Owners and anonymous callers get 401.
func (h *InquiryHandler) Create(c *fiber.Ctx) error {
	ident := h.Identity.Resolve(credentials(c))
	if !ident.IsCustomer() {
		applog.Security(c, "inquiry.create.denied", nil)
		return unauthorized(c, "Not authenticated")
	}

	var req struct {
		ProductID      int64  `json:"productId"`
		ProductName    string `json:"productName"`
		Quantity       *int64 `json:"quantity"`
		CollectionDate string `json:"collectionDate"`
		CollectionTime string `json:"collectionTime"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ProductID == 0 || req.ProductName == "" {
		return badRequest(c, "Product information required")
	}
	if req.CollectionDate != "" {
		if _, ok := validate.Date(req.CollectionDate); !ok {
			return badRequest(c, "Invalid collection date")
		}
	}
	if req.CollectionTime != "" {
		if _, ok := validate.Time(req.CollectionTime); !ok {
			return badRequest(c, "Invalid collection time")
		}
	}

	id, err := h.Inquiries.Create(ident, services.InquiryInput{
		ProductID:      req.ProductID,
		ProductName:    req.ProductName,
		Quantity:       req.Quantity,
		CollectionDate: req.CollectionDate,
		CollectionTime: req.CollectionTime,
	})
	if errors.Is(err, services.ErrValidation) {
		return badRequest(c, "Collection date and time are required")
	}
	if err != nil {
		return failErr(c, "inquiry.create", err)
	}

	applog.Audit(c, "inquiry.create", map[string]any{"inquiry_id": id, "product": req.ProductName})
	return c.JSON(fiber.Map{"success": true, "message": "Inquiry sent! The owner will contact you soon."})
}

// Acknowledge deletes an inquiry the owner has handled. Owner-only.
func (h *InquiryHandler) Acknowledge(c *fiber.Ctx) error {
	var req struct {
		InquiryID int64 `json:"inquiryId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.InquiryID == 0 {
		return badRequest(c, "Inquiry ID required")
	}

	if err := h.Inquiries.Acknowledge(req.InquiryID); err != nil {
		return failErr(c, "inquiry.acknowledge", err)
	}

	applog.Audit(c, "inquiry.acknowledge", map[string]any{"inquiry_id": req.InquiryID})
	return c.JSON(fiber.Map{"success": true})
}

// phoneCustomer resolves the phone-session cookie to a registered user.
// Self-service order views exist only for the phone scheme.
func (h *InquiryHandler) phoneCustomer(c *fiber.Ctx) (string, error) {
	phone := c.Cookies(cookiePhone)
	if phone == "" {
		return "", services.ErrAuth
	}
	if _, err := h.Phones.Get(phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", services.ErrAuth
		}
		return "", err
	}
	return phone, nil
}

// ListOrders returns the calling phone customer's own inquiries.
func (h *InquiryHandler) ListOrders(c *fiber.Ctx) error {
	phone, err := h.phoneCustomer(c)
	if errors.Is(err, services.ErrAuth) {
		return unauthorized(c, "Not authenticated")
	}
	if err != nil {
		return failErr(c, "orders.list", err)
	}

	orders, err := h.Inquiries.ListForCustomer(phone)
	if err != nil {
		return failErr(c, "orders.list", err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// CancelOrder lets a phone customer withdraw their own inquiry.
func (h *InquiryHandler) CancelOrder(c *fiber.Ctx) error {
	phone, err := h.phoneCustomer(c)
	if errors.Is(err, services.ErrAuth) {
		return unauthorized(c, "Not authenticated")
	}
	if err != nil {
		return failErr(c, "orders.cancel", err)
	}

	var req struct {
		OrderID int64 `json:"orderId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.OrderID == 0 {
		return badRequest(c, "Order ID required")
	}

	if err := h.Inquiries.Cancel(req.OrderID, phone); err != nil {
		return failErr(c, "orders.cancel", err)
	}

	applog.Audit(c, "orders.cancel", map[string]any{"order_id": req.OrderID})
	return c.JSON(fiber.Map{"success": true})
}
