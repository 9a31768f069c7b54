package server

import (
	"strings"
	"testing"

	"character-guessr/internal/config"

	"github.com/gorilla/websocket"
)

func TestSoloRequiresGameInProgress(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestHTTPServer(t, srv)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/solo"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	for _, msgType := range []string{"guess", "surrender", "timeUp", "restart"} {
		if err := conn.WriteJSON(soloMessage{Type: msgType}); err != nil {
			t.Fatalf("write %s failed: %v", msgType, err)
		}
		raw := readEvent(t, conn)
		if eventType(t, raw) != eventError {
			t.Fatalf("expected error for %s before start, got %s", msgType, eventType(t, raw))
		}
	}

	if err := conn.WriteJSON(soloMessage{Type: "banana"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	raw := readEvent(t, conn)
	if eventType(t, raw) != eventError {
		t.Fatalf("expected error for unknown type, got %s", eventType(t, raw))
	}
}
