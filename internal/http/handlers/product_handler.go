package handlers

import (
	"strconv"
	"strings"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// List is public. An optional q parameter filters on name/description.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if len(q) > 50 {
		q = q[:50]
	}
	products, err := h.Catalog.List(q)
	if err != nil {
		return failErr(c, "products.list", err)
	}
	return c.JSON(fiber.Map{"products": products})
}

// Create accepts a multipart form: name, description, price, image?.
// Owner-only (enforced by route middleware).
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return badRequest(c, "Name and price are required")
	}
	price, ok := validate.Price(c.FormValue("price"))
	if !ok {
		return badRequest(c, "Name and price are required")
	}
	description := strings.TrimSpace(c.FormValue("description"))

	image, err := c.FormFile("image")
	if err != nil {
		image = nil // image is optional
	}

	id, err := h.Catalog.Create(name, description, price, image)
	if err != nil {
		return failErr(c, "products.create", err)
	}

	applog.Audit(c, "products.create", map[string]any{"product_id": id, "name": name})
	return c.JSON(fiber.Map{"success": true, "productId": id})
}

// Delete removes a product; historical inquiries keep their snapshot of
// the product name.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}

	if err := h.Catalog.Delete(id); err != nil {
		return failErr(c, "products.delete", err)
	}

	applog.Audit(c, "products.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"success": true})
}
