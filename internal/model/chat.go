package model

import "time"

// SenderKind distinguishes the two actor classes on a conversation.
type SenderKind string

const (
	SenderCustomer SenderKind = "customer"
	SenderAdmin    SenderKind = "admin"
)

// Message is a single immutable chat message inside a conversation.
type Message struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	SenderKind SenderKind `json:"sender_kind"`
	SenderName string     `json:"sender_name"`
	SentAt     time.Time  `json:"sent_at"`
}

// ConversationSummary is the admin-inbox view of one conversation.
type ConversationSummary struct {
	CustomerID      string    `json:"customer_id"`
	DisplayName     string    `json:"display_name"`
	LastMessageText string    `json:"last_message_text"`
	LastMessageAt   time.Time `json:"last_message_at"`
	UnreadCount     int       `json:"unread_count"`
	IsOnline        bool      `json:"is_online"`
}

// RegisterPayload binds a connection to an actor identity.
// UserID is the customer's stable client-generated id; admins omit it.
// Token is only consulted when admin token verification is enabled.
type RegisterPayload struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	Token    string `json:"token,omitempty"`
}

// ChatMessagePayload carries an outbound message. ToUserID targets a
// customer conversation and is only meaningful for admin senders.
type ChatMessagePayload struct {
	Text     string `json:"text"`
	ToUserID string `json:"toUserId,omitempty"`
}

// SelectConversationPayload opens a conversation from the admin inbox.
type SelectConversationPayload struct {
	CustomerID string `json:"customerId"`
}

// TypingPayload is the transient typing signal. Nothing is persisted.
type TypingPayload struct {
	ToUserID string `json:"toUserId,omitempty"`
	Username string `json:"username,omitempty"`
}

// StatusInfo is the /status health probe response body.
type StatusInfo struct {
	Status             string    `json:"status"`
	OnlineSessionCount int       `json:"onlineSessionCount"`
	TotalConversations int       `json:"totalConversations"`
	AdminsOnline       int       `json:"adminsOnline"`
	ServerTime         time.Time `json:"serverTime"`
}

// ArchivedMessage is a row in the optional write-only message archive.
type ArchivedMessage struct {
	MessageID  string    `json:"message_id"`
	CustomerID string    `json:"customer_id"`
	SenderKind string    `json:"sender_kind"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	SentAt     time.Time `json:"sent_at"`
}
