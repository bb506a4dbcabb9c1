package file_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/PabloGalante/finbot/internal/adapters/storage/file"
	"github.com/PabloGalante/finbot/internal/domain"
)

func sampleSessions() []*domain.ChatSession {
	// Fixed instants: time.Now carries a monotonic reading that never
	// survives serialization and would break DeepEqual.
	t0 := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	t1 := time.Date(2026, 3, 14, 9, 31, 12, 500000000, time.UTC)

	return []*domain.ChatSession{
		{
			ID:    "s1",
			Title: "What is ITR?",
			Messages: []*domain.Message{
				{
					ID:          "m1",
					SessionID:   "s1",
					Role:        domain.RoleModel,
					Content:     "Hello!",
					CreatedAt:   t0,
					Suggestions: []string{"How to start investing?", "What is ITR?"},
				},
				{
					ID:        "m2",
					SessionID: "s1",
					Role:      domain.RoleUser,
					Content:   "What is ITR?",
					CreatedAt: t1,
				},
			},
			UpdatedAt: t1,
		},
	}
}

func newTestStore(t *testing.T) *file.Store {
	t.Helper()
	store, err := file.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func TestLoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load()
	if !errors.Is(err, domain.ErrNoSavedSessions) {
		t.Fatalf("expected ErrNoSavedSessions, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	store := newTestStore(t)
	want := sampleSessions()

	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got[0], want[0])
	}
}

func TestSaveSkipsEmptyList(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(sampleSessions()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(nil); err != nil {
		t.Fatalf("empty Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("empty save must not wipe history, got %d sessions", len(got))
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := file.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "sessions.json"), []byte("{{{not json"), 0o600); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	_, err = store.Load()
	if !errors.Is(err, domain.ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
}

func TestLoadRejectsUnknownRole(t *testing.T) {
	dir := t.TempDir()
	store, err := file.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	blob := `[{"id":"s1","title":"t","updatedAt":"2026-03-14T09:30:00Z","messages":[{"id":"m1","role":"alien","content":"x","timestamp":"2026-03-14T09:30:00Z"}]}]`
	if err := os.WriteFile(filepath.Join(dir, "sessions.json"), []byte(blob), 0o600); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	_, err = store.Load()
	if !errors.Is(err, domain.ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState for unknown role, got %v", err)
	}
}

func TestLoadRejectsMissingSessionID(t *testing.T) {
	dir := t.TempDir()
	store, err := file.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	blob := `[{"title":"t","updatedAt":"2026-03-14T09:30:00Z","messages":[]}]`
	if err := os.WriteFile(filepath.Join(dir, "sessions.json"), []byte(blob), 0o600); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	_, err = store.Load()
	if !errors.Is(err, domain.ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState for missing id, got %v", err)
	}
}
