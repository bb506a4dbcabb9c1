package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/PabloGalante/finbot/internal/app/chat"
	"github.com/PabloGalante/finbot/internal/domain"
)

// Server exposes the chat service to the browser frontend.
type Server struct {
	svc *chat.Service
}

func NewServer(svc *chat.Service) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /sessions          → GET: list, POST: create
	mux.HandleFunc("/sessions", s.handleSessions)

	// /sessions/{id}          → GET: session + messages, DELETE: delete
	// /sessions/{id}/messages → POST: send message
	// /sessions/{id}/select   → POST: make active
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type sessionSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	Active       bool      `json:"active"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type messageResponse struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	Suggestions []string  `json:"suggestions,omitempty"`
}

type sessionResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Messages  []messageResponse `json:"messages"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserMessage  messageResponse  `json:"user_message"`
	ModelMessage *messageResponse `json:"model_message,omitempty"`
}

// ─────────────────────────────────────────────
// Routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListSessions(w, r)
	case http.MethodPost:
		s.handleCreateSession(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	parts := strings.Split(path, "/")
	if parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := domain.SessionID(parts[0])

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetSession(w, r, id)
		case http.MethodDelete:
			s.handleDeleteSession(w, r, id)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 && parts[1] == "messages" && r.Method == http.MethodPost {
		s.handleSendMessage(w, r, id)
		return
	}
	if len(parts) == 2 && parts[1] == "select" && r.Method == http.MethodPost {
		s.svc.Select(id)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.NotFound(w, r)
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	activeID := s.svc.ActiveID()

	sessions := s.svc.Sessions()
	out := make([]sessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sessionSummary{
			ID:           string(sess.ID),
			Title:        sess.Title,
			MessageCount: len(sess.Messages),
			Active:       sess.ID == activeID,
			UpdatedAt:    sess.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.svc.NewSession(r.Context())
	writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	sess, err := s.svc.Get(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	// Deleting an unknown id is a no-op, not an error.
	s.svc.Delete(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.svc.Send(r.Context(), id, req.Text)
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		badRequest(w, "text is required")
		return
	case errors.Is(err, domain.ErrRequestInFlight):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a request is already in flight"})
		return
	case errors.Is(err, domain.ErrSessionNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		internalError(w, err)
		return
	}

	resp := sendMessageResponse{UserMessage: toMessageResponse(out.UserMessage)}
	if out.ModelMessage != nil {
		m := toMessageResponse(out.ModelMessage)
		resp.ModelMessage = &m
	}
	writeJSON(w, http.StatusOK, resp)
}

// ─────────────────────────────────────────────
// Mapping helpers
// ─────────────────────────────────────────────

func toSessionResponse(sess *domain.ChatSession) sessionResponse {
	out := sessionResponse{
		ID:        string(sess.ID),
		Title:     sess.Title,
		Messages:  make([]messageResponse, 0, len(sess.Messages)),
		UpdatedAt: sess.UpdatedAt,
	}
	for _, m := range sess.Messages {
		out.Messages = append(out.Messages, toMessageResponse(m))
	}
	return out
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:          string(m.ID),
		SessionID:   string(m.SessionID),
		Role:        string(m.Role),
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
		Suggestions: m.Suggestions,
	}
}

// ─────────────────────────────────────────────
// HTTP helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
