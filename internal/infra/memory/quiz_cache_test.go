package memory

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"quizec-service/internal/app"
	"quizec-service/internal/domain"
)

// countingQuizRepo counts backing-store reads through the cache.
type countingQuizRepo struct {
	app.QuizRepository
	gets atomic.Int64
}

func (r *countingQuizRepo) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	r.gets.Add(1)
	return r.QuizRepository.GetQuiz(ctx, quizID)
}

func TestCachedQuizRepositoryServesFromCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingQuizRepo{QuizRepository: NewQuizStore()}
	cached := NewCachedQuizRepository(inner, time.Minute)

	quiz := domain.Quiz{ID: "quiz-1", Title: "Capitals", CreatorID: "creator"}
	if err := cached.SaveQuiz(ctx, quiz); err != nil {
		t.Fatalf("SaveQuiz: %v", err)
	}

	for i := 0; i < 5; i++ {
		got, err := cached.GetQuiz(ctx, "quiz-1")
		if err != nil {
			t.Fatalf("GetQuiz: %v", err)
		}
		if got.Title != "Capitals" {
			t.Fatalf("unexpected quiz %+v", got)
		}
	}
	if n := inner.gets.Load(); n != 1 {
		t.Fatalf("expected one backing read, got %d", n)
	}
}

func TestCachedQuizRepositoryInvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	inner := &countingQuizRepo{QuizRepository: NewQuizStore()}
	cached := NewCachedQuizRepository(inner, time.Minute)

	quiz := domain.Quiz{ID: "quiz-1", Title: "v1", CreatorID: "creator"}
	if err := cached.SaveQuiz(ctx, quiz); err != nil {
		t.Fatalf("SaveQuiz: %v", err)
	}
	if _, err := cached.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}

	quiz.Title = "v2"
	if err := cached.SaveQuiz(ctx, quiz); err != nil {
		t.Fatalf("SaveQuiz: %v", err)
	}
	got, err := cached.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if got.Title != "v2" {
		t.Fatalf("stale read after write: %+v", got)
	}

	if err := cached.AddParticipant(ctx, "quiz-1", "player"); err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
	got, err = cached.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if !got.HasParticipant("player") {
		t.Fatalf("stale read after AddParticipant: %v", got.Participants)
	}
}

func TestCachedQuizRepositoryExpires(t *testing.T) {
	ctx := context.Background()
	inner := &countingQuizRepo{QuizRepository: NewQuizStore()}
	cached := NewCachedQuizRepository(inner, time.Millisecond)

	if err := cached.SaveQuiz(ctx, domain.Quiz{ID: "quiz-1", CreatorID: "creator"}); err != nil {
		t.Fatalf("SaveQuiz: %v", err)
	}
	if _, err := cached.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := cached.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if n := inner.gets.Load(); n != 2 {
		t.Fatalf("expected a second backing read after expiry, got %d", n)
	}
}

func TestCachedQuizRepositoryMissPassesThrough(t *testing.T) {
	inner := &countingQuizRepo{QuizRepository: NewQuizStore()}
	cached := NewCachedQuizRepository(inner, time.Minute)

	if _, err := cached.GetQuiz(context.Background(), "missing"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}
