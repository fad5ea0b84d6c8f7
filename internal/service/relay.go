package service

import (
	"encoding/json"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Franklimello/lajinhaStore-sub002/internal/model"

	"github.com/google/uuid"
)

// Session is one live transport connection. A session is unrouted until a
// register event binds it to an actor; the handler owns the websocket, the
// hub only ever touches the Send channel.
type Session struct {
	ID   string
	Send chan []byte

	kind       model.SenderKind
	customerID string
	username   string
	registered bool
	viewing    string // customerID the admin currently has open
	closed     bool
}

func NewSession() *Session {
	return &Session{
		ID:   uuid.NewString(),
		Send: make(chan []byte, 256),
	}
}

// conversation is the per-customer ledger. Exactly one exists per customerID
// for the lifetime of the process (or until an explicit clear).
type conversation struct {
	customerID           string
	displayName          string
	messages             []model.Message
	lastMessageText      string
	lastMessageAt        time.Time
	unreadCount          int
	firstContactNotified bool

	// routing group: the customer's own sessions plus any admin session
	// currently viewing this conversation.
	members map[*Session]bool
}

func (c *conversation) summary() model.ConversationSummary {
	return model.ConversationSummary{
		CustomerID:      c.customerID,
		DisplayName:     c.displayName,
		LastMessageText: c.lastMessageText,
		LastMessageAt:   c.lastMessageAt,
		UnreadCount:     c.unreadCount,
		IsOnline:        c.isOnline(),
	}
}

// isOnline is true while at least one customer session is in the group.
func (c *conversation) isOnline() bool {
	for s := range c.members {
		if s.kind == model.SenderCustomer && s.customerID == c.customerID {
			return true
		}
	}
	return false
}

// Notifier alerts the on-call channel about a customer's first contact.
// Implementations must not block the caller.
type Notifier interface {
	NotifyFirstContact(displayName, text string, at time.Time)
}

// ArchiveSink receives appended messages for out-of-band persistence.
// Implementations must not block the caller.
type ArchiveSink interface {
	Enqueue(msg model.ArchivedMessage)
}

// RelayHub owns the session set and the conversation table. Every operation
// runs under one mutex, so a ledger append and its fan-out enqueues always
// complete before the next operation starts; recipients therefore observe
// messages in append order.
type RelayHub struct {
	mu            sync.Mutex
	sessions      map[*Session]bool
	admins        map[*Session]bool
	conversations map[string]*conversation

	notifier Notifier
	archive  ArchiveSink
}

func NewRelayHub(notifier Notifier, archive ArchiveSink) *RelayHub {
	return &RelayHub{
		sessions:      make(map[*Session]bool),
		admins:        make(map[*Session]bool),
		conversations: make(map[string]*conversation),
		notifier:      notifier,
		archive:       archive,
	}
}

// Attach tracks a freshly accepted connection. The session stays unrouted
// until Register.
func (h *RelayHub) Attach(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s] = true
}

// Register binds an actor identity to a connection. Admins join the
// broadcast set and get the full directory; customers join (and lazily
// create) their conversation and get its history. Duplicate registrations
// are tolerated and simply re-bind.
func (h *RelayHub) Register(s *Session, p model.RegisterPayload) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.sessions[s] {
		return
	}

	// A re-registration under a different identity must release the old
	// bindings first, or the connection would keep receiving traffic for
	// a conversation it no longer belongs to.
	if s.registered {
		sameAdmin := p.IsAdmin && s.kind == model.SenderAdmin
		sameCustomer := !p.IsAdmin && s.kind == model.SenderCustomer && s.customerID == p.UserID
		if !sameAdmin && !sameCustomer {
			h.unbind(s)
		}
	}

	if p.IsAdmin {
		s.kind = model.SenderAdmin
		s.username = p.Username
		if s.username == "" {
			s.username = "Support"
		}
		s.registered = true
		h.admins[s] = true
		h.sendEvent(s, model.EventConversationsList, h.directory())
		log.Printf("[relay] admin %q connected (admins: %d)", s.username, len(h.admins))
		return
	}

	if p.UserID == "" {
		return
	}

	s.kind = model.SenderCustomer
	s.customerID = p.UserID
	s.username = p.Username
	s.registered = true

	conv := h.getOrCreateConversation(p.UserID, p.Username)
	conv.displayName = p.Username
	conv.members[s] = true

	h.sendEvent(s, model.EventMessageHistory, messagesOrEmpty(conv.messages))
	h.broadcastDirectory()
	log.Printf("[relay] customer %q connected (conversations: %d)", s.username, len(h.conversations))
}

// unbind strips a session's actor identity: broadcast-set membership,
// routing-group membership, and the offline transition for a customer whose
// last session this was.
func (h *RelayHub) unbind(s *Session) {
	delete(h.admins, s)

	if s.viewing != "" {
		if conv, ok := h.conversations[s.viewing]; ok {
			delete(conv.members, s)
		}
		s.viewing = ""
	}

	if s.kind == model.SenderCustomer && s.customerID != "" {
		if conv, ok := h.conversations[s.customerID]; ok {
			wasOnline := conv.isOnline()
			delete(conv.members, s)
			if wasOnline && !conv.isOnline() {
				h.broadcastDirectory()
			}
		}
	}

	s.kind = ""
	s.customerID = ""
	s.username = ""
	s.registered = false
}

// SelectConversation moves an admin into a customer's routing group and
// marks the conversation read. Non-admin or unknown targets are no-ops.
func (h *RelayHub) SelectConversation(s *Session, customerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !s.registered || s.kind != model.SenderAdmin {
		return
	}
	conv, ok := h.conversations[customerID]
	if !ok {
		return
	}

	if s.viewing != "" && s.viewing != customerID {
		if prev, ok := h.conversations[s.viewing]; ok {
			delete(prev.members, s)
		}
	}
	s.viewing = customerID
	conv.members[s] = true
	conv.unreadCount = 0

	h.sendEvent(s, model.EventConversationMessages, messagesOrEmpty(conv.messages))
	h.broadcastDirectory()
}

// SendMessage appends a message to the right conversation and fans it out.
// Empty-after-trim text is dropped without a trace.
func (h *RelayHub) SendMessage(s *Session, p model.ChatMessagePayload) {
	h.mu.Lock()
	defer h.mu.Unlock()

	text := strings.TrimSpace(p.Text)
	if text == "" || !s.registered {
		return
	}

	if s.kind == model.SenderAdmin {
		h.sendAdminMessage(s, text, p.ToUserID)
		return
	}
	h.sendCustomerMessage(s, text)
}

func (h *RelayHub) sendAdminMessage(s *Session, text, toUserID string) {
	conv, ok := h.conversations[toUserID]
	if !ok {
		return
	}

	msg := h.appendMessage(conv, model.SenderAdmin, s.username, text)

	// An unanswered-contact span ends here; the customer's next message
	// should notify again.
	conv.firstContactNotified = false

	for member := range conv.members {
		if member == s {
			continue // sender renders optimistically, no echo
		}
		h.sendEvent(member, model.EventChatMessage, msg)
	}
	h.broadcastDirectory()
}

func (h *RelayHub) sendCustomerMessage(s *Session, text string) {
	// Registration normally creates the conversation; this is the
	// defensive path for a message racing ahead of it.
	conv := h.getOrCreateConversation(s.customerID, s.username)
	conv.members[s] = true

	msg := h.appendMessage(conv, model.SenderCustomer, s.username, text)
	conv.unreadCount++

	h.sendEvent(s, model.EventChatMessage, msg) // server-confirmed receipt
	for admin := range h.admins {
		h.sendEvent(admin, model.EventChatMessage, msg)
	}
	h.broadcastDirectory()

	if !conv.firstContactNotified {
		// Flag flips before the dispatch so a burst of messages cannot
		// double-notify.
		conv.firstContactNotified = true
		if h.notifier != nil {
			h.notifier.NotifyFirstContact(conv.displayName, text, msg.SentAt)
		}
	}
}

func (h *RelayHub) appendMessage(conv *conversation, kind model.SenderKind, senderName, text string) model.Message {
	msg := model.Message{
		ID:         uuid.NewString(),
		Text:       text,
		SenderKind: kind,
		SenderName: senderName,
		SentAt:     time.Now(),
	}
	conv.messages = append(conv.messages, msg)
	conv.lastMessageText = text
	conv.lastMessageAt = msg.SentAt

	if h.archive != nil {
		h.archive.Enqueue(model.ArchivedMessage{
			MessageID:  msg.ID,
			CustomerID: conv.customerID,
			SenderKind: string(kind),
			SenderName: senderName,
			Text:       text,
			SentAt:     msg.SentAt,
		})
	}
	return msg
}

// Typing routes the transient typing/stopTyping signal to the opposite
// party. Nothing is stored; stale indicators are the client's problem.
func (h *RelayHub) Typing(s *Session, toUserID string, stop bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !s.registered {
		return
	}

	event := model.EventTyping
	if stop {
		event = model.EventStopTyping
	}
	payload := model.TypingPayload{Username: s.username}

	if s.kind == model.SenderCustomer {
		payload.ToUserID = s.customerID
		for admin := range h.admins {
			h.sendEvent(admin, event, payload)
		}
		return
	}

	conv, ok := h.conversations[toUserID]
	if !ok {
		return
	}
	for member := range conv.members {
		if member == s {
			continue
		}
		h.sendEvent(member, event, payload)
	}
}

// Pong answers a client liveness ping. Goes through the hub lock so a ping
// racing Shutdown cannot write to a closed channel.
func (h *RelayHub) Pong(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.sessions[s] {
		return
	}
	h.sendEvent(s, model.EventPong, nil)
}

// Disconnect detaches a connection from whatever it joined. Safe to call
// repeatedly and for sessions the hub has never seen.
func (h *RelayHub) Disconnect(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.sessions[s] {
		return
	}
	delete(h.sessions, s)

	wasRegistered := s.registered
	name := s.username
	h.unbind(s)

	h.closeSession(s)
	if wasRegistered {
		log.Printf("[relay] %q disconnected (sessions: %d)", name, len(h.sessions))
	}
}

// Status reports the operational counters for the health probe.
func (h *RelayHub) Status() model.StatusInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return model.StatusInfo{
		Status:             "ok",
		OnlineSessionCount: len(h.sessions),
		TotalConversations: len(h.conversations),
		AdminsOnline:       len(h.admins),
		ServerTime:         time.Now(),
	}
}

// ClearConversations wipes the whole in-memory ledger and tells every admin
// about the now-empty directory. Returns how many conversations were dropped.
func (h *RelayHub) ClearConversations() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.conversations)
	h.conversations = make(map[string]*conversation)
	for s := range h.sessions {
		s.viewing = ""
	}
	h.broadcastDirectory()
	log.Printf("[relay] cleared %d conversations", n)
	return n
}

// Shutdown closes every live session so the writer pumps drain and exit.
func (h *RelayHub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.sessions {
		h.closeSession(s)
	}
	h.sessions = make(map[*Session]bool)
	h.admins = make(map[*Session]bool)
}

// messagesOrEmpty keeps empty histories serializing as [] instead of null.
func messagesOrEmpty(msgs []model.Message) []model.Message {
	if msgs == nil {
		return []model.Message{}
	}
	return msgs
}

func (h *RelayHub) getOrCreateConversation(customerID, displayName string) *conversation {
	conv, ok := h.conversations[customerID]
	if !ok {
		conv = &conversation{
			customerID:  customerID,
			displayName: displayName,
			members:     make(map[*Session]bool),
		}
		h.conversations[customerID] = conv
	}
	return conv
}

// directory is the full conversation list, most recent activity first.
func (h *RelayHub) directory() []model.ConversationSummary {
	list := make([]model.ConversationSummary, 0, len(h.conversations))
	for _, conv := range h.conversations {
		list = append(list, conv.summary())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].LastMessageAt.After(list[j].LastMessageAt)
	})
	return list
}

// broadcastDirectory full-replaces the inbox on every admin connection.
// Cheap at single-digit admin counts, which is the expected scale.
func (h *RelayHub) broadcastDirectory() {
	if len(h.admins) == 0 {
		return
	}
	list := h.directory()
	for admin := range h.admins {
		h.sendEvent(admin, model.EventConversationsList, list)
	}
}

func (h *RelayHub) sendEvent(s *Session, eventType string, payload interface{}) {
	if s.closed {
		return
	}
	var data json.RawMessage
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			log.Printf("[relay] marshal %s: %v", eventType, err)
			return
		}
	}
	frame, err := json.Marshal(model.WSEvent{Type: eventType, Data: data})
	if err != nil {
		log.Printf("[relay] marshal frame %s: %v", eventType, err)
		return
	}
	select {
	case s.Send <- frame:
	default:
		// Buffer full means the peer stopped reading; drop the frame and
		// let the read deadline reap the connection.
		log.Printf("[relay] send buffer full, dropping %s for session %s", eventType, s.ID)
	}
}

func (h *RelayHub) closeSession(s *Session) {
	if s.closed {
		return
	}
	s.closed = true
	close(s.Send)
}
