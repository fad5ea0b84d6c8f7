package handler

import (
	"github.com/Franklimello/lajinhaStore-sub002/internal/repository"
	"github.com/Franklimello/lajinhaStore-sub002/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the key-gated operator endpoints. All routes under it
// are mounted behind middleware.AdminKey.
type AdminHandler struct {
	hub         *service.RelayHub
	auth        *service.AuthService
	archiveRepo *repository.MessageArchiveRepository // nil when archiving is disabled
}

func NewAdminHandler(hub *service.RelayHub, auth *service.AuthService, archiveRepo *repository.MessageArchiveRepository) *AdminHandler {
	return &AdminHandler{hub: hub, auth: auth, archiveRepo: archiveRepo}
}

// WSToken issues a short-lived token an admin client presents when
// registering over the websocket.
func (h *AdminHandler) WSToken(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Username == "" {
		req.Username = "Support"
	}

	if !h.auth.Enabled() {
		return c.Status(409).JSON(fiber.Map{"error": "admin tokens are not configured"})
	}

	token, err := h.auth.IssueAdminToken(req.Username)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to issue token"})
	}

	return c.JSON(fiber.Map{"token": token})
}

// Stats reports relay counters plus the archive size when available.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	status := h.hub.Status()

	resp := fiber.Map{
		"sessions_online":     status.OnlineSessionCount,
		"conversations_total": status.TotalConversations,
		"admins_online":       status.AdminsOnline,
	}
	if h.archiveRepo != nil {
		if archived, err := h.archiveRepo.CountMessages(c.Context()); err == nil {
			resp["messages_archived"] = archived
		}
	}
	return c.JSON(resp)
}
