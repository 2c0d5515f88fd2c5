package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)

	created := store.GetOrCreate("quiz-1", "u1")
	if created == nil {
		t.Fatalf("GetOrCreate returned nil")
	}
	if !mr.Exists("quiz:session:quiz-1:u1") {
		t.Fatalf("expected liveness key to be set")
	}
	if again := store.GetOrCreate("quiz-1", "u1"); again != created {
		t.Fatalf("expected the same session for the same pair")
	}

	store.Delete("quiz-1", "u1")
	if mr.Exists("quiz:session:quiz-1:u1") {
		t.Fatalf("expected liveness key removed")
	}
	if _, ok := store.Get("quiz-1", "u1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestSessionStoreForQuiz(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	store.GetOrCreate("quiz-1", "u1")
	store.GetOrCreate("quiz-1", "u2")
	store.GetOrCreate("quiz-2", "u1")

	if got := len(store.ForQuiz("quiz-1")); got != 2 {
		t.Fatalf("expected 2 sessions for quiz-1, got %d", got)
	}
}
