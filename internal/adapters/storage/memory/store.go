package memory

import (
	"sync"

	"github.com/PabloGalante/finbot/internal/domain"
)

// Store keeps the mirrored session list in memory. Used by tests and
// ephemeral runs. Save/Load exchange deep copies so the store behaves
// like a real serialize/deserialize boundary.
type Store struct {
	mu       sync.RWMutex
	saved    bool
	sessions []*domain.ChatSession
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Load() ([]*domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.saved {
		return nil, domain.ErrNoSavedSessions
	}
	return cloneSessions(s.sessions), nil
}

func (s *Store) Save(sessions []*domain.ChatSession) error {
	// Same contract as the durable adapters: an empty list never
	// overwrites saved history.
	if len(sessions) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved = true
	s.sessions = cloneSessions(sessions)
	return nil
}

func cloneSessions(in []*domain.ChatSession) []*domain.ChatSession {
	out := make([]*domain.ChatSession, 0, len(in))
	for _, sess := range in {
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
		out = append(out, clone)
	}
	return out
}
