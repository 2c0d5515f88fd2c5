package memory

import (
	"context"
	"sort"
	"sync"

	"quizec-service/internal/domain"
)

// ResultStore is an in-memory, append-only implementation of
// app.ResultRepository.
type ResultStore struct {
	mu      sync.RWMutex
	results []domain.Result
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) AddResult(_ context.Context, result domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

func (s *ResultStore) CountResults(_ context.Context, quizID, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, r := range s.results {
		if r.QuizID == quizID && r.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *ResultStore) ListResultsByUser(_ context.Context, userID string) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []domain.Result
	for _, r := range s.results {
		if r.UserID == userID {
			results = append(results, r)
		}
	}
	sortResultsNewestFirst(results)
	return results, nil
}

func (s *ResultStore) ListResultsByQuiz(_ context.Context, quizID string) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []domain.Result
	for _, r := range s.results {
		if r.QuizID == quizID {
			results = append(results, r)
		}
	}
	sortResultsNewestFirst(results)
	return results, nil
}

func sortResultsNewestFirst(results []domain.Result) {
	sort.Slice(results, func(i, j int) bool {
		if !results[i].SubmittedAt.Equal(results[j].SubmittedAt) {
			return results[i].SubmittedAt.After(results[j].SubmittedAt)
		}
		return results[i].AttemptNumber > results[j].AttemptNumber
	})
}
