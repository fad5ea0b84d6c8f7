package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// collectingGateway records sendMessage calls and lets tests wait for the
// detached dispatch goroutines.
type collectingGateway struct {
	mu       sync.Mutex
	requests []telegramSendMessage
	failFor  string // chat id that gets a 500
	done     chan struct{}
	expected int
}

func newCollectingGateway(expected int) *collectingGateway {
	return &collectingGateway{done: make(chan struct{}), expected: expected}
}

func (g *collectingGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req telegramSendMessage
	_ = json.NewDecoder(r.Body).Decode(&req)

	g.mu.Lock()
	g.requests = append(g.requests, req)
	hit := len(g.requests)
	g.mu.Unlock()

	if g.failFor != "" && req.ChatID == g.failFor {
		w.WriteHeader(http.StatusInternalServerError)
	}
	if hit == g.expected {
		close(g.done)
	}
}

func (g *collectingGateway) wait(t *testing.T) []telegramSendMessage {
	t.Helper()
	select {
	case <-g.done:
	case <-time.After(3 * time.Second):
		t.Fatal("gateway did not receive the expected requests in time")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]telegramSendMessage(nil), g.requests...)
}

func TestNotifierSendsToEveryRecipient(t *testing.T) {
	gw := newCollectingGateway(2)
	srv := httptest.NewServer(gw)
	defer srv.Close()

	n := NewTelegramNotifier(srv.URL, "test-token", []string{"111", "222"})
	n.NotifyFirstContact("Ana", "Oi, tem arroz?", time.Now())

	reqs := gw.wait(t)
	if len(reqs) != 2 {
		t.Fatalf("gateway got %d requests, want 2", len(reqs))
	}
	seen := map[string]bool{}
	for _, r := range reqs {
		seen[r.ChatID] = true
		if !strings.Contains(r.Text, "Ana") || !strings.Contains(r.Text, "Oi, tem arroz?") {
			t.Fatalf("notification body missing fields: %q", r.Text)
		}
	}
	if !seen["111"] || !seen["222"] {
		t.Fatalf("recipients missed: %v", seen)
	}
}

func TestNotifierRecipientsAreIndependent(t *testing.T) {
	gw := newCollectingGateway(2)
	gw.failFor = "111"
	srv := httptest.NewServer(gw)
	defer srv.Close()

	n := NewTelegramNotifier(srv.URL, "test-token", []string{"111", "222"})
	n.NotifyFirstContact("Ana", "oi", time.Now())

	// One recipient failing must not stop delivery to the other.
	reqs := gw.wait(t)
	if len(reqs) != 2 {
		t.Fatalf("gateway got %d requests, want 2", len(reqs))
	}
}

func TestNotifierDisabledWithoutConfig(t *testing.T) {
	var hit bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer srv.Close()

	for _, n := range []*TelegramNotifier{
		NewTelegramNotifier(srv.URL, "", []string{"111"}),
		NewTelegramNotifier(srv.URL, "token", nil),
	} {
		if n.Enabled() {
			t.Fatal("notifier should be disabled")
		}
		n.NotifyFirstContact("Ana", "oi", time.Now())
	}

	time.Sleep(100 * time.Millisecond)
	if hit {
		t.Fatal("disabled notifier still sent a request")
	}
}
