package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// TelegramNotifier pushes first-contact alerts to a static list of chat ids
// through the bot HTTP API. Delivery is best effort: every recipient is
// attempted independently in its own goroutine, failures are logged and
// never retried, and the message-send path never waits on any of it.
type TelegramNotifier struct {
	apiBase  string
	botToken string
	chatIDs  []string
	client   *http.Client
}

func NewTelegramNotifier(apiBase, botToken string, chatIDs []string) *TelegramNotifier {
	if apiBase == "" {
		apiBase = "https://api.telegram.org"
	}
	return &TelegramNotifier{
		apiBase:  apiBase,
		botToken: botToken,
		chatIDs:  chatIDs,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Enabled reports whether the notifier has somewhere to send.
func (n *TelegramNotifier) Enabled() bool {
	return n.botToken != "" && len(n.chatIDs) > 0
}

type telegramSendMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// NotifyFirstContact fires one sendMessage per configured recipient and
// returns immediately.
func (n *TelegramNotifier) NotifyFirstContact(displayName, text string, at time.Time) {
	if !n.Enabled() {
		return
	}
	body := fmt.Sprintf("Nova mensagem de %s às %s:\n%s",
		displayName, at.Format("15:04"), text)
	for _, chatID := range n.chatIDs {
		go n.send(chatID, body)
	}
}

func (n *TelegramNotifier) send(chatID, text string) {
	payload, err := json.Marshal(telegramSendMessage{ChatID: chatID, Text: text})
	if err != nil {
		log.Printf("[notify] marshal error: %v", err)
		return
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	resp, err := n.client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("[notify] send to %s failed: %v", chatID, err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		log.Printf("[notify] HTTP %d for chat %s", resp.StatusCode, chatID)
	}
}
