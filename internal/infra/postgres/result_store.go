package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"quizec-service/internal/domain"
)

// AddResult appends a result document.
func (s *Store) AddResult(ctx context.Context, result domain.Result) error {
	return s.putDoc(ctx, "results", result.ID, result)
}

// CountResults counts prior results for a (quiz, user) pair. There is no
// transactional guard around count-then-append; attempt numbering under
// concurrent saves is best effort.
func (s *Store) CountResults(ctx context.Context, quizID, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM results WHERE data->>'quizId'=$1 AND data->>'userId'=$2`,
		quizID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return count, nil
}

// ListResultsByUser returns the user's results, newest first.
func (s *Store) ListResultsByUser(ctx context.Context, userID string) ([]domain.Result, error) {
	return s.listResults(ctx,
		`SELECT data FROM results WHERE data->>'userId'=$1 ORDER BY data->>'submittedAt' DESC`, userID)
}

// ListResultsByQuiz returns the quiz's results, newest first.
func (s *Store) ListResultsByQuiz(ctx context.Context, quizID string) ([]domain.Result, error) {
	return s.listResults(ctx,
		`SELECT data FROM results WHERE data->>'quizId'=$1 ORDER BY data->>'submittedAt' DESC`, quizID)
}

func (s *Store) listResults(ctx context.Context, query, arg string) ([]domain.Result, error) {
	var results []domain.Result
	err := s.queryDocs(ctx, query, func(raw []byte) error {
		var result domain.Result
		if err := json.Unmarshal(raw, &result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
		results = append(results, result)
		return nil
	}, arg)
	if err != nil {
		return nil, err
	}
	return results, nil
}
