package httpapi

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/nwert/folio/internal/assistant"
)

func dialChatWS(t *testing.T, f *serverFixture) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(f.server.Router())
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestChatWSAnswersFrames(t *testing.T) {
	f := newTestServer(t, func(f *serverFixture) {
		f.llm.reply = "She builds backend services."
	})
	conn := dialChatWS(t, f)

	if err := conn.WriteJSON(map[string]string{"message": "What does Nicole work on?"}); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if resp.Text != "She builds backend services." || resp.Error || resp.RateLimited {
		t.Fatalf("response = %+v", resp)
	}

	// The channel is stateless; a second frame runs the pipeline again.
	if err := conn.WriteJSON(map[string]string{"message": "And her skills?"}); err != nil {
		t.Fatalf("write second frame: %v", err)
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read second frame: %v", err)
	}
	if f.llm.calls != 2 {
		t.Fatalf("llm calls = %d, want 2", f.llm.calls)
	}
}

func TestChatWSInvalidFrame(t *testing.T) {
	f := newTestServer(t, nil)
	conn := dialChatWS(t, f)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if !resp.Error || resp.Text == "" {
		t.Fatalf("response = %+v, want error with text", resp)
	}
	if f.llm.calls != 0 {
		t.Fatalf("invalid frame reached the provider")
	}
}

func TestChatWSSharesDailyLimit(t *testing.T) {
	f := newTestServer(t, func(f *serverFixture) {
		f.chatMax = 1
	})
	router := f.server.Router()

	// Spend the daily quota over plain HTTP first.
	rec := doJSON(t, router, "POST", "/api/chat", "", chatBody("What are Nicole's skills?"), nil)
	if rec.Code != 200 {
		t.Fatalf("warmup status = %d", rec.Code)
	}

	conn := dialChatWS(t, f)
	if err := conn.WriteJSON(map[string]string{"message": "Another question"}); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if !resp.RateLimited || resp.Text != assistant.RateLimitText {
		t.Fatalf("response = %+v, want rate-limited redirect", resp)
	}
}
