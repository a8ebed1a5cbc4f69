package handlers

import (
	applog "storefront/internal/log"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// InboxHandler exposes the owner message log. All routes are owner-only.
type InboxHandler struct {
	Inbox *services.InboxService
}

func (h *InboxHandler) List(c *fiber.Ctx) error {
	messages, err := h.Inbox.List()
	if err != nil {
		return failErr(c, "inbox.list", err)
	}
	unread, err := h.Inbox.UnreadCount()
	if err != nil {
		return failErr(c, "inbox.list", err)
	}
	return c.JSON(fiber.Map{"messages": messages, "unreadCount": unread})
}

func (h *InboxHandler) Update(c *fiber.Ctx) error {
	var req struct {
		Action    string `json:"action"`
		MessageID int64  `json:"messageId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	switch {
	case req.Action == "markRead" && req.MessageID != 0:
		if err := h.Inbox.MarkRead(req.MessageID); err != nil {
			return failErr(c, "inbox.mark_read", err)
		}
		return c.JSON(fiber.Map{"success": true})
	case req.Action == "markAllRead":
		if err := h.Inbox.MarkAllRead(); err != nil {
			return failErr(c, "inbox.mark_all_read", err)
		}
		return c.JSON(fiber.Map{"success": true})
	default:
		return badRequest(c, "Invalid action")
	}
}

func (h *InboxHandler) Delete(c *fiber.Ctx) error {
	var req struct {
		MessageID int64 `json:"messageId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.MessageID == 0 {
		return badRequest(c, "Message ID required")
	}

	if err := h.Inbox.Delete(req.MessageID); err != nil {
		return failErr(c, "inbox.delete", err)
	}

	applog.Audit(c, "inbox.delete", map[string]any{"message_id": req.MessageID})
	return c.JSON(fiber.Map{"success": true})
}
