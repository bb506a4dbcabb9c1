package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/finbot/internal/domain"
	"github.com/PabloGalante/finbot/internal/observability"
)

const (
	// Greeting opens every new session as its first model message.
	Greeting = "Hello! I'm FinBot, your personal financial literacy assistant. I can help you understand budgeting, taxes, investments, and more. How can I help you today?"

	// DefaultTitle labels a session until the first user message rewrites it.
	DefaultTitle = "New Discussion"

	maxTitleRunes = 30
)

// GreetingSuggestions accompany the greeting message.
var GreetingSuggestions = []string{"How to start investing?", "What is ITR?"}

// Service owns the authoritative in-memory session list and the active
// session id. The repository only ever holds a mirror of it, rewritten
// wholesale after every mutation. All mutations go through Service.
type Service struct {
	mu        sync.Mutex
	assistant domain.Assistant
	repo      domain.SessionRepository

	sessions []*domain.ChatSession // newest first
	activeID domain.SessionID
	inFlight bool

	now   func() time.Time
	newID func() string
}

func NewService(assistant domain.Assistant, repo domain.SessionRepository) *Service {
	return &Service{
		assistant: assistant,
		repo:      repo,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Init loads the persisted session list, or starts with a fresh session
// when nothing usable was saved. A load failure is absorbed: the user
// gets an empty slate, never an error.
func (s *Service) Init(ctx context.Context) {
	log := observability.LoggerFromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.repo.Load()
	switch {
	case errors.Is(err, domain.ErrNoSavedSessions):
		log.Info("no saved sessions, starting fresh")
	case err != nil:
		log.Warn("failed to load saved sessions, starting fresh", "error", err)
	default:
		s.sessions = loaded
	}

	if len(s.sessions) == 0 {
		s.createLocked(ctx)
		return
	}
	s.activeID = s.sessions[0].ID
}

// NewSession creates a session with the fixed greeting, inserts it at the
// front of the list and makes it active.
func (s *Service) NewSession(ctx context.Context) *domain.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSession(s.createLocked(ctx))
}

func (s *Service) createLocked(ctx context.Context) *domain.ChatSession {
	now := s.now()
	session := &domain.ChatSession{
		ID:        domain.SessionID(s.newID()),
		Title:     DefaultTitle,
		UpdatedAt: now,
	}
	session.Messages = append(session.Messages, &domain.Message{
		ID:          domain.MessageID(s.newID()),
		SessionID:   session.ID,
		Role:        domain.RoleModel,
		Content:     Greeting,
		CreatedAt:   now,
		Suggestions: append([]string(nil), GreetingSuggestions...),
	})

	s.sessions = append([]*domain.ChatSession{session}, s.sessions...)
	s.activeID = session.ID
	s.persistLocked(ctx)

	observability.LoggerFromContext(ctx).Info("session created", "session_id", session.ID)
	return session
}

// Select makes id the active session. The id is not validated; a stale id
// simply leaves the display without an active session.
func (s *Service) Select(id domain.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = id
}

// Delete removes the session with the given id. Deleting the last session
// immediately creates a fresh one; deleting the active session activates
// the first remaining one in list order. An unknown id is a no-op.
func (s *Service) Delete(ctx context.Context, id domain.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.sessions[:0]
	removed := false
	for _, sess := range s.sessions {
		if sess.ID == id {
			removed = true
			continue
		}
		kept = append(kept, sess)
	}
	if !removed {
		return
	}
	s.sessions = kept

	if len(s.sessions) == 0 {
		s.createLocked(ctx)
		return
	}
	if s.activeID == id {
		s.activeID = s.sessions[0].ID
	}
	s.persistLocked(ctx)

	observability.LoggerFromContext(ctx).Info("session deleted", "session_id", id)
}

type SendOutput struct {
	UserMessage *domain.Message
	// ModelMessage is nil when the target session was deleted while the
	// request was pending; the late reply is dropped, never resurrected.
	ModelMessage *domain.Message
}

// Send is a two-phase append: phase 1 commits the user message before the
// network call starts, phase 2 commits the model reply once that specific
// call resolves. The assistant contract is total, so phase 2 always has a
// reply to commit. A single in-flight flag serializes sends globally.
func (s *Service) Send(ctx context.Context, sessionID domain.SessionID, text string) (*SendOutput, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyMessage
	}

	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, domain.ErrRequestInFlight
	}
	session := s.findLocked(sessionID)
	if session == nil {
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}

	now := s.now()
	userMsg := &domain.Message{
		ID:        domain.MessageID(s.newID()),
		SessionID: session.ID,
		Role:      domain.RoleUser,
		Content:   text,
		CreatedAt: now,
	}

	// Only the greeting present yet: this first user message names the
	// session.
	if len(session.Messages) == 1 {
		session.Title = truncateTitle(text)
	}
	session.Messages = append(session.Messages, userMsg)
	session.UpdatedAt = now

	// History for the assistant excludes the message being sent.
	history := make([]*domain.Message, len(session.Messages)-1)
	copy(history, session.Messages[:len(session.Messages)-1])

	s.inFlight = true
	s.persistLocked(ctx)
	s.mu.Unlock()

	log.Info("sending message")

	reply := s.assistant.GenerateResponse(ctx, history, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	// Appends target the session id captured at call start, not whatever
	// session is active now.
	session = s.findLocked(sessionID)
	if session == nil {
		log.Info("dropping reply for deleted session")
		return &SendOutput{UserMessage: userMsg}, nil
	}

	modelMsg := &domain.Message{
		ID:          domain.MessageID(s.newID()),
		SessionID:   session.ID,
		Role:        domain.RoleModel,
		Content:     reply.Answer,
		CreatedAt:   s.now(),
		Suggestions: reply.Suggestions,
	}
	session.Messages = append(session.Messages, modelMsg)
	session.UpdatedAt = modelMsg.CreatedAt
	s.persistLocked(ctx)

	log.Info("reply appended", "suggestions", len(reply.Suggestions))

	return &SendOutput{UserMessage: userMsg, ModelMessage: modelMsg}, nil
}

// Sessions returns a snapshot of the session list in display order
// (newest created first). Sessions are owned exclusively by the service;
// callers always get copies.
func (s *Service) Sessions() []*domain.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.ChatSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, cloneSession(sess))
	}
	return out
}

// Get returns a snapshot of the session with the given id.
func (s *Service) Get(id domain.SessionID) (*domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.findLocked(id); sess != nil {
		return cloneSession(sess), nil
	}
	return nil, domain.ErrSessionNotFound
}

// Active returns a snapshot of the active session, or nil if the active
// id is stale.
func (s *Service) Active() *domain.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.findLocked(s.activeID); sess != nil {
		return cloneSession(sess)
	}
	return nil
}

func (s *Service) ActiveID() domain.SessionID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// InFlight reports whether a send is pending.
func (s *Service) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

func (s *Service) findLocked(id domain.SessionID) *domain.ChatSession {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// persistLocked mirrors the current list to the repository. The durable
// copy is best effort: a failed write is logged, never surfaced.
func (s *Service) persistLocked(ctx context.Context) {
	if len(s.sessions) == 0 {
		return
	}
	if err := s.repo.Save(s.sessions); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to persist sessions", "error", err)
	}
}

func cloneSession(sess *domain.ChatSession) *domain.ChatSession {
	clone := &domain.ChatSession{
		ID:        sess.ID,
		Title:     sess.Title,
		Messages:  make([]*domain.Message, 0, len(sess.Messages)),
		UpdatedAt: sess.UpdatedAt,
	}
	for _, m := range sess.Messages {
		mc := *m
		if m.Suggestions != nil {
			mc.Suggestions = append([]string(nil), m.Suggestions...)
		}
		clone.Messages = append(clone.Messages, &mc)
	}
	return clone
}

func truncateTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= maxTitleRunes {
		return text
	}
	return string(runes[:maxTitleRunes]) + "..."
}
