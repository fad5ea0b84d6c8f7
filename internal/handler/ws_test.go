package handler

import (
	"encoding/json"
	"testing"

	"github.com/Franklimello/lajinhaStore-sub002/internal/model"
	"github.com/Franklimello/lajinhaStore-sub002/internal/service"
)

func TestPingEventAnsweredWithPong(t *testing.T) {
	hub := service.NewRelayHub(nil, nil)
	h := NewWSHandler(hub, service.NewAuthService(""))

	sess := service.NewSession()
	hub.Attach(sess)

	h.handleEvent(sess, model.WSEvent{Type: model.EventPing}, "")

	select {
	case raw := <-sess.Send:
		var e model.WSEvent
		if err := json.Unmarshal(raw, &e); err != nil {
			t.Fatalf("bad frame: %v", err)
		}
		if e.Type != model.EventPong {
			t.Fatalf("event type = %q, want pong", e.Type)
		}
	default:
		t.Fatal("ping was not answered")
	}
}

func TestPingEventAfterShutdownIsSafe(t *testing.T) {
	hub := service.NewRelayHub(nil, nil)
	h := NewWSHandler(hub, service.NewAuthService(""))

	sess := service.NewSession()
	hub.Attach(sess)
	hub.Shutdown()

	// The reader goroutine can still be processing frames while the hub
	// shuts down; this must not panic on the closed send channel.
	h.handleEvent(sess, model.WSEvent{Type: model.EventPing}, "")
}
