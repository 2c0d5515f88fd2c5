package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"quizec-service/internal/domain"
)

// GetQuiz loads one quiz document.
func (s *Store) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var quiz domain.Quiz
	if err := s.getDoc(ctx, "quizzes", quizID, &quiz, domain.ErrQuizNotFound); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// SaveQuiz upserts a quiz document.
func (s *Store) SaveQuiz(ctx context.Context, quiz domain.Quiz) error {
	return s.putDoc(ctx, "quizzes", quiz.ID, quiz)
}

// DeleteQuiz removes a quiz document.
func (s *Store) DeleteQuiz(ctx context.Context, quizID string) error {
	return s.deleteDoc(ctx, "quizzes", quizID)
}

// ListQuizzesByCreator returns every quiz with a matching creatorId.
func (s *Store) ListQuizzesByCreator(ctx context.Context, creatorID string) ([]domain.Quiz, error) {
	var quizzes []domain.Quiz
	err := s.queryDocs(ctx,
		`SELECT data FROM quizzes WHERE data->>'creatorId'=$1 ORDER BY data->>'createdAt'`,
		func(raw []byte) error {
			var quiz domain.Quiz
			if err := json.Unmarshal(raw, &quiz); err != nil {
				return fmt.Errorf("unmarshal quiz: %w", err)
			}
			quizzes = append(quizzes, quiz)
			return nil
		}, creatorID)
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

// AddParticipant unions userID into the quiz's participants array in a
// single statement, matching the document store's atomic array-union.
func (s *Store) AddParticipant(ctx context.Context, quizID, userID string) error {
	return s.arrayUnion(ctx, quizID, "participants", userID)
}

// SetPlaying unions or removes userID in the quiz's playingUsers array.
func (s *Store) SetPlaying(ctx context.Context, quizID, userID string, playing bool) error {
	if playing {
		return s.arrayUnion(ctx, quizID, "playingUsers", userID)
	}
	return s.arrayRemove(ctx, quizID, "playingUsers", userID)
}

// UpdateStatus sets the quiz's status field.
func (s *Store) UpdateStatus(ctx context.Context, quizID string, status domain.QuizStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE quizzes SET data = jsonb_set(data, '{status}', to_jsonb($2::text)) WHERE id=$1`,
		quizID, string(status))
	if err != nil {
		return fmt.Errorf("update quiz status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *Store) arrayUnion(ctx context.Context, quizID, field, value string) error {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(
		`UPDATE quizzes SET data = jsonb_set(data, '{%s}',
			(SELECT COALESCE(jsonb_agg(DISTINCT elem), '[]'::jsonb)
			 FROM jsonb_array_elements(COALESCE(data->'%s', '[]'::jsonb) || to_jsonb($2::text)) AS elem))
		 WHERE id=$1`, field, field),
		quizID, value)
	if err != nil {
		return fmt.Errorf("union %s: %w", field, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *Store) arrayRemove(ctx context.Context, quizID, field, value string) error {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(
		`UPDATE quizzes SET data = jsonb_set(data, '{%s}',
			(SELECT COALESCE(jsonb_agg(elem), '[]'::jsonb)
			 FROM jsonb_array_elements(COALESCE(data->'%s', '[]'::jsonb)) AS elem
			 WHERE elem <> to_jsonb($2::text)))
		 WHERE id=$1`, field, field),
		quizID, value)
	if err != nil {
		return fmt.Errorf("remove %s: %w", field, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}
