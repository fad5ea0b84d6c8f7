package handler

import (
	"encoding/json"
	"log"
	"time"

	"github.com/Franklimello/lajinhaStore-sub002/internal/model"
	"github.com/Franklimello/lajinhaStore-sub002/internal/service"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type WSHandler struct {
	hub  *service.RelayHub
	auth *service.AuthService
}

func NewWSHandler(hub *service.RelayHub, auth *service.AuthService) *WSHandler {
	return &WSHandler{hub: hub, auth: auth}
}

func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		// Admin tokens may also arrive as a query param so browser
		// clients can pass them before the first frame.
		c.Locals("token", c.Query("token"))
		return websocket.New(h.handleConnection)(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *WSHandler) handleConnection(c *websocket.Conn) {
	queryToken, _ := c.Locals("token").(string)

	sess := service.NewSession()
	h.hub.Attach(sess)
	defer h.hub.Disconnect(sess)

	// Writer goroutine
	go func() {
		defer c.Close()
		for msg := range sess.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	// Reader loop
	c.SetReadDeadline(time.Now().Add(60 * time.Second))
	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			break
		}

		// Any inbound frame counts as liveness
		c.SetReadDeadline(time.Now().Add(60 * time.Second))

		var event model.WSEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			continue
		}

		h.handleEvent(sess, event, queryToken)
	}
}

// handleEvent dispatches one inbound event. Malformed payloads are dropped
// without closing the connection; the transport is fire-and-forget.
func (h *WSHandler) handleEvent(sess *service.Session, event model.WSEvent, queryToken string) {
	switch event.Type {
	case model.EventRegister:
		var p model.RegisterPayload
		if err := json.Unmarshal(event.Data, &p); err != nil {
			return
		}
		if p.IsAdmin && h.auth.Enabled() {
			token := p.Token
			if token == "" {
				token = queryToken
			}
			if err := h.auth.ValidateAdminToken(token); err != nil {
				log.Printf("[relay] rejected admin registration for %q: %v", p.Username, err)
				return
			}
		}
		h.hub.Register(sess, p)

	case model.EventSelectConversation:
		var p model.SelectConversationPayload
		if err := json.Unmarshal(event.Data, &p); err != nil {
			// Older clients send the customer id as a bare string.
			var id string
			if err := json.Unmarshal(event.Data, &id); err != nil {
				return
			}
			p.CustomerID = id
		}
		h.hub.SelectConversation(sess, p.CustomerID)

	case model.EventChatMessage:
		var p model.ChatMessagePayload
		if err := json.Unmarshal(event.Data, &p); err != nil {
			return
		}
		h.hub.SendMessage(sess, p)

	case model.EventTyping, model.EventStopTyping:
		var p model.TypingPayload
		if len(event.Data) > 0 {
			_ = json.Unmarshal(event.Data, &p)
		}
		h.hub.Typing(sess, p.ToUserID, event.Type == model.EventStopTyping)

	case model.EventPing:
		// Lets clients measure liveness without a protocol-level ping
		// frame. Goes through the hub so it cannot race a shutdown.
		h.hub.Pong(sess)

	default:
		log.Printf("[relay] unknown event type %q", event.Type)
	}
}
