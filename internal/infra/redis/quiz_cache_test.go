package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quizec-service/internal/app"
	"quizec-service/internal/domain"
	"quizec-service/internal/infra/memory"
)

type countingQuizRepo struct {
	app.QuizRepository
	gets int
}

func (r *countingQuizRepo) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	r.gets++
	return r.QuizRepository.GetQuiz(ctx, quizID)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCachedQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	inner := &countingQuizRepo{QuizRepository: memory.NewQuizStore()}
	repo := NewCachedQuizRepository(newClient(mr), inner, time.Minute)

	ctx := context.Background()
	if err := repo.SaveQuiz(ctx, domain.Quiz{ID: "quiz-1", Title: "Capitals"}); err != nil {
		t.Fatalf("save quiz: %v", err)
	}

	if _, err := repo.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if inner.gets != 1 {
		t.Fatalf("expected one backing read, got %d", inner.gets)
	}
	if !mr.Exists("quiz:quiz-1:doc") {
		t.Fatalf("expected cached document in redis")
	}

	// Second call should hit the cache.
	if _, err := repo.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if inner.gets != 1 {
		t.Fatalf("expected cache hit, backing reads=%d", inner.gets)
	}
}

func TestCachedQuizRepositoryInvalidatesOnWrite(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	inner := &countingQuizRepo{QuizRepository: memory.NewQuizStore()}
	repo := NewCachedQuizRepository(newClient(mr), inner, time.Minute)

	ctx := context.Background()
	quiz := domain.Quiz{ID: "quiz-1", Title: "v1"}
	if err := repo.SaveQuiz(ctx, quiz); err != nil {
		t.Fatalf("save quiz: %v", err)
	}
	if _, err := repo.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}

	quiz.Title = "v2"
	if err := repo.SaveQuiz(ctx, quiz); err != nil {
		t.Fatalf("save quiz: %v", err)
	}
	if mr.Exists("quiz:quiz-1:doc") {
		t.Fatalf("expected cached document dropped on write")
	}

	got, err := repo.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got.Title != "v2" {
		t.Fatalf("stale read after write: %+v", got)
	}
}

func TestCachedQuizRepositoryDropsCorruptEntries(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	inner := &countingQuizRepo{QuizRepository: memory.NewQuizStore()}
	repo := NewCachedQuizRepository(newClient(mr), inner, time.Minute)

	ctx := context.Background()
	if err := repo.SaveQuiz(ctx, domain.Quiz{ID: "quiz-1", Title: "Capitals"}); err != nil {
		t.Fatalf("save quiz: %v", err)
	}
	if err := mr.Set("quiz:quiz-1:doc", "{not json"); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}

	got, err := repo.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got.Title != "Capitals" {
		t.Fatalf("expected reload from backing store, got %+v", got)
	}
}

func TestCachedQuizRepositoryMiss(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	inner := &countingQuizRepo{QuizRepository: memory.NewQuizStore()}
	repo := NewCachedQuizRepository(newClient(mr), inner, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "missing"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}
