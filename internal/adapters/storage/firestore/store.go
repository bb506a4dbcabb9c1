package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/finbot/internal/domain"
)

// Store mirrors the session list to Firestore: one document per session
// in the "sessions" collection, messages embedded. Save reconciles the
// collection wholesale so a deleted session also disappears from the
// mirror.
type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("sessions")
}

type sessionDoc struct {
	Title     string       `firestore:"title"`
	Messages  []messageDoc `firestore:"messages"`
	UpdatedAt time.Time    `firestore:"updated_at"`
}

type messageDoc struct {
	ID          string    `firestore:"id"`
	Role        string    `firestore:"role"`
	Content     string    `firestore:"content"`
	CreatedAt   time.Time `firestore:"created_at"`
	Suggestions []string  `firestore:"suggestions"`
}

// Load reads every session, newest activity first.
func (s *Store) Load() ([]*domain.ChatSession, error) {
	ctx := context.Background()

	iter := s.sessionsCol().OrderBy("updated_at", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var out []*domain.ChatSession
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			if status.Code(err) == codes.NotFound {
				return nil, domain.ErrNoSavedSessions
			}
			return nil, fmt.Errorf("firestore load: %w", err)
		}

		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
		}

		sess, err := doc.toDomain(domain.SessionID(snap.Ref.ID))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
		}
		out = append(out, sess)
	}

	if len(out) == 0 {
		return nil, domain.ErrNoSavedSessions
	}
	return out, nil
}

// Save upserts every current session and deletes documents for sessions
// that no longer exist. Empty lists are skipped, matching the adapter
// contract.
func (s *Store) Save(sessions []*domain.ChatSession) error {
	if len(sessions) == 0 {
		return nil
	}

	ctx := context.Background()

	keep := make(map[string]bool, len(sessions))
	for _, sess := range sessions {
		keep[string(sess.ID)] = true
		if _, err := s.sessionsCol().Doc(string(sess.ID)).Set(ctx, toDoc(sess)); err != nil {
			return fmt.Errorf("firestore save session %s: %w", sess.ID, err)
		}
	}

	refs := s.sessionsCol().DocumentRefs(ctx)
	for {
		ref, err := refs.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return fmt.Errorf("firestore list sessions: %w", err)
		}
		if keep[ref.ID] {
			continue
		}
		if _, err := ref.Delete(ctx); err != nil {
			return fmt.Errorf("firestore delete session %s: %w", ref.ID, err)
		}
	}
	return nil
}

func toDoc(sess *domain.ChatSession) sessionDoc {
	doc := sessionDoc{
		Title:     sess.Title,
		Messages:  make([]messageDoc, 0, len(sess.Messages)),
		UpdatedAt: sess.UpdatedAt,
	}
	for _, m := range sess.Messages {
		doc.Messages = append(doc.Messages, messageDoc{
			ID:          string(m.ID),
			Role:        string(m.Role),
			Content:     m.Content,
			CreatedAt:   m.CreatedAt,
			Suggestions: m.Suggestions,
		})
	}
	return doc
}

func (d sessionDoc) toDomain(id domain.SessionID) (*domain.ChatSession, error) {
	sess := &domain.ChatSession{
		ID:        id,
		Title:     d.Title,
		Messages:  make([]*domain.Message, 0, len(d.Messages)),
		UpdatedAt: d.UpdatedAt,
	}
	for i, m := range d.Messages {
		role := domain.Role(m.Role)
		if role != domain.RoleUser && role != domain.RoleModel {
			return nil, fmt.Errorf("message %d: unknown role %q", i, m.Role)
		}
		sess.Messages = append(sess.Messages, &domain.Message{
			ID:          domain.MessageID(m.ID),
			SessionID:   id,
			Role:        role,
			Content:     m.Content,
			CreatedAt:   m.CreatedAt,
			Suggestions: m.Suggestions,
		})
	}
	return sess, nil
}
