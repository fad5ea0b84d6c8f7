package handler

import (
	"fmt"

	"github.com/Franklimello/lajinhaStore-sub002/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StatusHandler struct {
	hub *service.RelayHub
}

func NewStatusHandler(hub *service.RelayHub) *StatusHandler {
	return &StatusHandler{hub: hub}
}

// Status is the operational probe: session and conversation counters plus
// the server clock. No side effects.
func (h *StatusHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.hub.Status())
}

// ClearConversations wipes the entire in-memory ledger. Destructive and
// unconfirmed; deployments should set ADMIN_KEY to gate it.
func (h *StatusHandler) ClearConversations(c *fiber.Ctx) error {
	n := h.hub.ClearConversations()
	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("cleared %d conversations", n),
	})
}
