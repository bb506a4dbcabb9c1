package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PabloGalante/finbot/internal/domain"
)

// stateFileName is the single fixed key under which the whole session
// list lives.
const stateFileName = "sessions.json"

// Store persists the full session list as one JSON document on disk,
// rewritten wholesale on every save.
type Store struct {
	path string
}

// NewStore resolves the state directory (default ~/.finbot) and makes
// sure it exists.
func NewStore(stateDir string) (*Store, error) {
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".finbot")
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	return &Store{path: filepath.Join(stateDir, stateFileName)}, nil
}

// Serialized forms. Timestamps round-trip through RFC 3339.

type sessionDoc struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Messages  []messageDoc `json:"messages"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type messageDoc struct {
	ID          string    `json:"id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Suggestions []string  `json:"suggestions,omitempty"`
}

// Load reads the saved session list. A missing file yields
// domain.ErrNoSavedSessions; anything that fails to decode or validate
// yields an error wrapping domain.ErrCorruptState.
func (s *Store) Load() ([]*domain.ChatSession, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNoSavedSessions
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var docs []sessionDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}

	sessions := make([]*domain.ChatSession, 0, len(docs))
	for i, doc := range docs {
		sess, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: session %d: %v", domain.ErrCorruptState, i, err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// Save rewrites the whole document. An empty list is never written: it
// would wipe previously saved history during an empty-state startup.
func (s *Store) Save(sessions []*domain.ChatSession) error {
	if len(sessions) == 0 {
		return nil
	}

	docs := make([]sessionDoc, 0, len(sessions))
	for _, sess := range sessions {
		docs = append(docs, toDoc(sess))
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sessions: %w", err)
	}

	// Write-then-rename so a crash never leaves a half-written file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

func toDoc(sess *domain.ChatSession) sessionDoc {
	doc := sessionDoc{
		ID:        string(sess.ID),
		Title:     sess.Title,
		Messages:  make([]messageDoc, 0, len(sess.Messages)),
		UpdatedAt: sess.UpdatedAt,
	}
	for _, m := range sess.Messages {
		doc.Messages = append(doc.Messages, messageDoc{
			ID:          string(m.ID),
			Role:        string(m.Role),
			Content:     m.Content,
			Timestamp:   m.CreatedAt,
			Suggestions: m.Suggestions,
		})
	}
	return doc
}

func (d sessionDoc) toDomain() (*domain.ChatSession, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("missing session id")
	}

	sess := &domain.ChatSession{
		ID:        domain.SessionID(d.ID),
		Title:     d.Title,
		Messages:  make([]*domain.Message, 0, len(d.Messages)),
		UpdatedAt: d.UpdatedAt,
	}
	for i, m := range d.Messages {
		if m.ID == "" {
			return nil, fmt.Errorf("message %d: missing id", i)
		}
		role := domain.Role(m.Role)
		if role != domain.RoleUser && role != domain.RoleModel {
			return nil, fmt.Errorf("message %d: unknown role %q", i, m.Role)
		}
		sess.Messages = append(sess.Messages, &domain.Message{
			ID:          domain.MessageID(m.ID),
			SessionID:   sess.ID,
			Role:        role,
			Content:     m.Content,
			CreatedAt:   m.Timestamp,
			Suggestions: m.Suggestions,
		})
	}
	return sess, nil
}
