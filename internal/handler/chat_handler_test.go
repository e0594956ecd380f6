package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type mockChatResponder struct {
	replyFn func(message string) string
}

func (m *mockChatResponder) Reply(message string) string {
	if m.replyFn != nil {
		return m.replyFn(message)
	}
	return "default reply"
}

func TestChatHandler_Chat(t *testing.T) {
	responder := &mockChatResponder{
		replyFn: func(message string) string {
			if message != "hello" {
				t.Errorf("message = %q, want hello", message)
			}
			return "Hello there!"
		},
	}
	h := NewChatHandler(responder)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hello"}`))
	rr := httptest.NewRecorder()
	h.Chat(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body chatResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Message != "Hello there!" {
		t.Errorf("message = %q, want Hello there!", body.Message)
	}
	if body.Role != "assistant" {
		t.Errorf("role = %q, want assistant", body.Role)
	}
}

func TestChatHandler_Chat_MalformedJSON(t *testing.T) {
	h := NewChatHandler(&mockChatResponder{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{not json`))
	rr := httptest.NewRecorder()
	h.Chat(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
