package memory

import (
	"context"
	"sync"

	"quizec-service/internal/domain"
)

// QuestionStore is an in-memory implementation of app.QuestionRepository.
type QuestionStore struct {
	mu        sync.RWMutex
	questions map[string]domain.Question
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{questions: make(map[string]domain.Question)}
}

func (s *QuestionStore) GetQuestion(_ context.Context, questionID string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[questionID]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return question, nil
}

func (s *QuestionStore) SaveQuestion(_ context.Context, question domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[question.ID] = question
	return nil
}

func (s *QuestionStore) DeleteQuestions(_ context.Context, questionIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range questionIDs {
		delete(s.questions, id)
	}
	return nil
}

func (s *QuestionStore) ListQuestionsByQuiz(_ context.Context, quizID string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var questions []domain.Question
	for _, question := range s.questions {
		if question.QuizID == quizID {
			questions = append(questions, question)
		}
	}
	return questions, nil
}
