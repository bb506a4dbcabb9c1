package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/PabloGalante/finbot/internal/adapters/http"
	"github.com/PabloGalante/finbot/internal/adapters/llm"
	"github.com/PabloGalante/finbot/internal/adapters/storage/memory"
	"github.com/PabloGalante/finbot/internal/app/chat"
)

func newTestServer(t *testing.T) (http.Handler, *chat.Service) {
	t.Helper()

	svc := chat.NewService(llm.NewMockAssistant(), memory.NewStore())
	svc.Init(context.Background())

	return httpadapter.NewServer(svc), svc
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestListSessions(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Sessions []struct {
			ID           string `json:"id"`
			Title        string `json:"title"`
			MessageCount int    `json:"message_count"`
			Active       bool   `json:"active"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Sessions) != 1 {
		t.Fatalf("expected the startup session, got %d", len(resp.Sessions))
	}
	if !resp.Sessions[0].Active || resp.Sessions[0].MessageCount != 1 {
		t.Errorf("unexpected startup session: %+v", resp.Sessions[0])
	}
}

func TestCreateSession(t *testing.T) {
	srv, svc := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}
	if len(svc.Sessions()) != 2 {
		t.Errorf("expected 2 sessions after create, got %d", len(svc.Sessions()))
	}
}

func TestSendMessage(t *testing.T) {
	srv, svc := newTestServer(t)
	id := svc.ActiveID()

	body := []byte(`{"text":"What is ITR?"}`)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/sessions/%s/messages", id), bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		UserMessage struct {
			Content string `json:"content"`
		} `json:"user_message"`
		ModelMessage *struct {
			Role        string   `json:"role"`
			Suggestions []string `json:"suggestions"`
		} `json:"model_message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.UserMessage.Content != "What is ITR?" {
		t.Errorf("unexpected user message: %+v", resp.UserMessage)
	}
	if resp.ModelMessage == nil || resp.ModelMessage.Role != "model" {
		t.Errorf("expected a model message, got %+v", resp.ModelMessage)
	}
}

func TestSendMessageBlankText(t *testing.T) {
	srv, svc := newTestServer(t)
	id := svc.ActiveID()

	body := []byte(`{"text":"   "}`)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/sessions/%s/messages", id), bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSendMessageUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)

	body := []byte(`{"text":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/sessions/no-such-id/messages", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteSessionAlwaysLeavesOne(t *testing.T) {
	srv, svc := newTestServer(t)
	id := svc.ActiveID()

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/sessions/%s", id), nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	sessions := svc.Sessions()
	if len(sessions) != 1 || sessions[0].ID == id {
		t.Errorf("expected a single fresh session, got %d", len(sessions))
	}
}

func TestSelectSession(t *testing.T) {
	srv, svc := newTestServer(t)
	first := svc.ActiveID()
	svc.NewSession(context.Background())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/sessions/%s/select", first), nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if svc.ActiveID() != first {
		t.Errorf("expected session %s to be active", first)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected open CORS origin, got %q", got)
	}
}
