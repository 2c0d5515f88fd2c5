package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"quizec-service/internal/domain"
)

// GetQuestion loads one question document.
func (s *Store) GetQuestion(ctx context.Context, questionID string) (domain.Question, error) {
	var question domain.Question
	if err := s.getDoc(ctx, "questions", questionID, &question, domain.ErrQuestionNotFound); err != nil {
		return domain.Question{}, err
	}
	return question, nil
}

// SaveQuestion upserts a question document.
func (s *Store) SaveQuestion(ctx context.Context, question domain.Question) error {
	return s.putDoc(ctx, "questions", question.ID, question)
}

// DeleteQuestions removes a batch of questions in one statement; missing
// IDs are skipped.
func (s *Store) DeleteQuestions(ctx context.Context, questionIDs []string) error {
	if len(questionIDs) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE id = ANY($1)`, questionIDs); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

// ListQuestionsByQuiz returns every question with a matching quizId.
func (s *Store) ListQuestionsByQuiz(ctx context.Context, quizID string) ([]domain.Question, error) {
	var questions []domain.Question
	err := s.queryDocs(ctx,
		`SELECT data FROM questions WHERE data->>'quizId'=$1`,
		func(raw []byte) error {
			var question domain.Question
			if err := json.Unmarshal(raw, &question); err != nil {
				return fmt.Errorf("unmarshal question: %w", err)
			}
			questions = append(questions, question)
			return nil
		}, quizID)
	if err != nil {
		return nil, err
	}
	return questions, nil
}
