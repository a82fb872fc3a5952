package websocket

import (
	"testing"
	"time"

	"news-agent-be/internal/dto"

	"github.com/google/uuid"
)

type quietLogger struct{}

func (quietLogger) Debug(module, message string, details map[string]interface{}) {}
func (quietLogger) Info(module, message string, details map[string]interface{})  {}
func (quietLogger) Warn(module, message string, details map[string]interface{})  {}
func (quietLogger) Error(module, message string, details map[string]interface{}) {}
func (quietLogger) Sync() error                                                  { return nil }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func (h *Hub) clientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func TestSendDeliversToRegisteredClient(t *testing.T) {
	h := NewHub(nil, quietLogger{})
	go h.Run()

	userID := uuid.New()
	client := &Client{Hub: h, UserID: userID, Send: make(chan []byte, 4)}
	h.register <- client
	waitFor(t, func() bool { return h.clientCount(userID) == 1 })

	h.Send(userID, dto.TrackedQueryNotification{Query: "chip exports"})

	select {
	case msg := <-client.Send:
		if len(msg) == 0 {
			t.Error("empty payload")
		}
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestSendDropsStalledClient(t *testing.T) {
	h := NewHub(nil, quietLogger{})
	go h.Run()

	userID := uuid.New()
	client := &Client{Hub: h, UserID: userID, Send: make(chan []byte, 1)}
	client.Send <- []byte("stuck")

	h.register <- client
	waitFor(t, func() bool { return h.clientCount(userID) == 1 })

	// Full buffer: the client gets dropped instead of blocking the hub.
	h.Send(userID, dto.TrackedQueryNotification{Query: "q"})
	waitFor(t, func() bool { return h.clientCount(userID) == 0 })

	// The read pump reports the same client on teardown; the hub must treat
	// the second report as a no-op rather than closing the channel again.
	h.unregister <- client
	h.Send(userID, dto.TrackedQueryNotification{Query: "q"})
	waitFor(t, func() bool { return h.clientCount(userID) == 0 })

	// Channel was closed exactly once: the buffered message is still there,
	// then the channel reads as closed.
	if msg := <-client.Send; string(msg) != "stuck" {
		t.Errorf("buffered message = %q", msg)
	}
	if _, ok := <-client.Send; ok {
		t.Error("channel should be closed after the drop")
	}
}

func TestUnregisterUnknownClientIsNoop(t *testing.T) {
	h := NewHub(nil, quietLogger{})
	go h.Run()

	client := &Client{Hub: h, UserID: uuid.New(), Send: make(chan []byte, 1)}
	h.unregister <- client

	// Never registered: nothing removed, channel left open.
	h.Send(client.UserID, dto.TrackedQueryNotification{Query: "q"})
	waitFor(t, func() bool { return h.clientCount(client.UserID) == 0 })

	select {
	case _, ok := <-client.Send:
		if !ok {
			t.Error("channel closed for a client the hub never owned")
		}
	default:
	}
}
