package model

import "encoding/json"

type WSEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client -> server event types.
const (
	EventRegister           = "register"
	EventSelectConversation = "selectConversation"
	EventChatMessage        = "chatMessage"
	EventTyping             = "typing"
	EventStopTyping         = "stopTyping"
	EventPing               = "ping"
)

// Server -> client event types.
const (
	EventConversationsList    = "conversationsList"
	EventMessageHistory       = "messageHistory"
	EventConversationMessages = "conversationMessages"
	EventPong                 = "pong"
)
