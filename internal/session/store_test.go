package session

import (
	"regexp"
	"testing"

	"github.com/mkoukoua/momochat/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return NewStore(database)
}

var sessionIDPattern = regexp.MustCompile(`^session_\d+_[a-z0-9]{7}$`)

func TestNewSession(t *testing.T) {
	sess := New()

	if !sessionIDPattern.MatchString(sess.ID) {
		t.Errorf("session id %q does not match the expected pattern", sess.ID)
	}
	if len(sess.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sess.Messages))
	}
	if sess.Messages[0].Sender != SenderBot {
		t.Errorf("expected welcome message from bot, got %q", sess.Messages[0].Sender)
	}
	if sess.Messages[0].Text != WelcomeText {
		t.Errorf("expected welcome text, got %q", sess.Messages[0].Text)
	}
	if !sess.QuickActions {
		t.Error("expected quick actions enabled on a fresh session")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate session id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestLoadMissingSession(t *testing.T) {
	store := setupStore(t)

	sess, err := store.Load(t.Context(), "session_123_abcdefg")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil for a missing session, got %+v", sess)
	}
}

func TestLoadEmptyID(t *testing.T) {
	store := setupStore(t)

	sess, err := store.Load(t.Context(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess != nil {
		t.Error("expected nil for an empty id")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := t.Context()

	sess := New()
	sess.Append(NewMessage(SenderUser, "Comment envoyer de l'argent avec MoMo?"))
	sess.Append(NewMessage(SenderBot, "Voici comment..."))
	sess.QuickActions = false

	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected saved session to load")
	}
	if loaded.ID != sess.ID {
		t.Errorf("expected id %q, got %q", sess.ID, loaded.ID)
	}
	if loaded.QuickActions {
		t.Error("expected quick actions to stay disabled")
	}
	if len(loaded.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(loaded.Messages))
	}
	for i, m := range sess.Messages {
		if loaded.Messages[i].ID != m.ID {
			t.Errorf("message %d: expected id %q, got %q", i, m.ID, loaded.Messages[i].ID)
		}
		if loaded.Messages[i].Text != m.Text {
			t.Errorf("message %d: expected text %q, got %q", i, m.Text, loaded.Messages[i].Text)
		}
		if loaded.Messages[i].Sender != m.Sender {
			t.Errorf("message %d: expected sender %q, got %q", i, m.Sender, loaded.Messages[i].Sender)
		}
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	store := setupStore(t)
	ctx := t.Context()

	sess := New()
	sess.Append(NewMessage(SenderUser, "hello"))

	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := store.Load(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Messages) != 2 {
		t.Errorf("expected 2 messages after double save, got %d", len(loaded.Messages))
	}
}

func TestSavePreservesOrder(t *testing.T) {
	store := setupStore(t)
	ctx := t.Context()

	sess := New()
	texts := []string{"one", "two", "three", "four", "five"}
	for _, txt := range texts {
		sess.Append(NewMessage(SenderUser, txt))
		if err := store.Save(ctx, sess); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	loaded, err := store.Load(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Messages) != len(texts)+1 {
		t.Fatalf("expected %d messages, got %d", len(texts)+1, len(loaded.Messages))
	}
	for i, txt := range texts {
		if got := loaded.Messages[i+1].Text; got != txt {
			t.Errorf("message %d: expected %q, got %q", i+1, txt, got)
		}
	}
}

func TestCountSessions(t *testing.T) {
	store := setupStore(t)
	ctx := t.Context()

	for i := 0; i < 3; i++ {
		if err := store.Save(ctx, New()); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	count, err := store.CountSessions(ctx)
	if err != nil {
		t.Fatalf("CountSessions: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 sessions, got %d", count)
	}
}
