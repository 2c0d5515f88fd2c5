package memory

import "testing"

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	if _, ok := store.Get("quiz-1", "u1"); ok {
		t.Fatalf("expected no session before GetOrCreate")
	}

	created := store.GetOrCreate("quiz-1", "u1")
	if created == nil {
		t.Fatalf("GetOrCreate returned nil")
	}
	if again := store.GetOrCreate("quiz-1", "u1"); again != created {
		t.Fatalf("GetOrCreate must return the same session for the same pair")
	}
	if other := store.GetOrCreate("quiz-1", "u2"); other == created {
		t.Fatalf("sessions must be keyed per user")
	}

	got, ok := store.Get("quiz-1", "u1")
	if !ok || got != created {
		t.Fatalf("Get returned wrong session")
	}

	store.Delete("quiz-1", "u1")
	if _, ok := store.Get("quiz-1", "u1"); ok {
		t.Fatalf("session should be gone after Delete")
	}
}

func TestSessionStoreForQuiz(t *testing.T) {
	store := NewSessionStore()
	store.GetOrCreate("quiz-1", "u1")
	store.GetOrCreate("quiz-1", "u2")
	store.GetOrCreate("quiz-2", "u1")

	sessions := store.ForQuiz("quiz-1")
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions for quiz-1, got %d", len(sessions))
	}
	if len(store.ForQuiz("quiz-3")) != 0 {
		t.Fatalf("expected no sessions for an unknown quiz")
	}
}
