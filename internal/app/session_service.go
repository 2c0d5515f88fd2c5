package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quizec-service/internal/domain"
)

// SessionService drives quiz attempts: loading questions one at a time,
// checking answers, and persisting the final result.
type SessionService struct {
	sessions  SessionRepository
	quizzes   QuizRepository
	questions QuestionRepository
	results   ResultRepository
	users     UserRepository
	now       func() time.Time
	newID     func() string
}

func NewSessionService(sessions SessionRepository, quizzes QuizRepository, questions QuestionRepository, results ResultRepository, users UserRepository) *SessionService {
	return &SessionService{
		sessions:  sessions,
		quizzes:   quizzes,
		questions: questions,
		results:   results,
		users:     users,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// StartAttempt loads the quiz, seeds a session with its time budget, starts
// the countdown, and installs the first question. A quiz with no questions
// yields a session with no current question.
func (s *SessionService) StartAttempt(ctx context.Context, quizID, userID string) (domain.AttemptProgress, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.AttemptProgress{}, err
	}

	session := s.sessions.GetOrCreate(quizID, userID)
	session.seedQuiz(quiz)
	session.startCountdown()

	if firstID := session.firstQuestionID(); firstID != "" {
		question, err := s.questions.GetQuestion(ctx, firstID)
		if err != nil {
			return domain.AttemptProgress{}, err
		}
		if err := session.setQuestion(question); err != nil {
			return domain.AttemptProgress{}, err
		}
	}
	return session.progress(), nil
}

// CurrentQuestion returns the question currently shown in the attempt.
func (s *SessionService) CurrentQuestion(quizID, userID string) (domain.Question, error) {
	session, ok := s.sessions.Get(quizID, userID)
	if !ok {
		return domain.Question{}, domain.ErrSessionNotFound
	}
	question, ok := session.currentQuestion()
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return question, nil
}

// LoadQuestion fetches a question by ID and makes it current, recomputing
// the index within the quiz's question list.
func (s *SessionService) LoadQuestion(ctx context.Context, quizID, userID, questionID string) (domain.Question, error) {
	session, ok := s.sessions.Get(quizID, userID)
	if !ok {
		return domain.Question{}, domain.ErrSessionNotFound
	}
	question, err := s.questions.GetQuestion(ctx, questionID)
	if err != nil {
		return domain.Question{}, err
	}
	if err := session.setQuestion(question); err != nil {
		return domain.Question{}, err
	}
	return question, nil
}

// SubmitAnswer evaluates the submission against the current question and
// records the verdict. A question counts at most once toward the tally;
// re-submitting replaces the earlier verdict.
func (s *SessionService) SubmitAnswer(_ context.Context, quizID, userID string, sub domain.Submission) (bool, error) {
	session, ok := s.sessions.Get(quizID, userID)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	question, ok := session.currentQuestion()
	if !ok {
		return false, domain.ErrQuestionNotFound
	}
	correct := question.Evaluate(sub)
	session.recordAnswer(question.ID, correct)
	return correct, nil
}

// NextQuestion advances the attempt. Past the last question the attempt is
// marked finished and stays finished.
func (s *SessionService) NextQuestion(ctx context.Context, quizID, userID string) (domain.Question, bool, error) {
	session, ok := s.sessions.Get(quizID, userID)
	if !ok {
		return domain.Question{}, false, domain.ErrSessionNotFound
	}
	nextID, finished := session.nextQuestionID()
	if finished {
		return domain.Question{}, true, nil
	}
	question, err := s.questions.GetQuestion(ctx, nextID)
	if err != nil {
		return domain.Question{}, false, err
	}
	if err := session.setQuestion(question); err != nil {
		return domain.Question{}, false, err
	}
	return question, false, nil
}

// PreviousQuestion steps back one question; at the first question it keeps
// the current one.
func (s *SessionService) PreviousQuestion(ctx context.Context, quizID, userID string) (domain.Question, error) {
	session, ok := s.sessions.Get(quizID, userID)
	if !ok {
		return domain.Question{}, domain.ErrSessionNotFound
	}
	prevID, ok := session.previousQuestionID()
	if !ok {
		return s.CurrentQuestion(quizID, userID)
	}
	question, err := s.questions.GetQuestion(ctx, prevID)
	if err != nil {
		return domain.Question{}, err
	}
	if err := session.setQuestion(question); err != nil {
		return domain.Question{}, err
	}
	return question, nil
}

// FinishAttempt ends the session, persists the result, updates the user's
// aggregates, and drops the session.
func (s *SessionService) FinishAttempt(ctx context.Context, quizID, userID string) (domain.Result, error) {
	session, ok := s.sessions.Get(quizID, userID)
	if !ok {
		return domain.Result{}, domain.ErrSessionNotFound
	}
	correct, total := session.tally()
	session.finish(false)

	result, err := s.SaveResult(ctx, quizID, userID, correct, total)
	if err != nil {
		return domain.Result{}, err
	}

	// User aggregates are best effort, matching the append-only result log
	// as the source of truth.
	if user, uerr := s.users.GetUser(ctx, userID); uerr == nil {
		user.CompletedQuizzes = appendUnique(user.CompletedQuizzes, quizID)
		user.Score += correct
		_ = s.users.UpdateUser(ctx, user)
	}

	s.sessions.Delete(quizID, userID)
	return result, nil
}

// SaveResult appends a result with the next attempt number for the
// (quiz, user) pair. The number is derived from a count of prior results;
// concurrent saves for the same pair can read the same count and collide.
func (s *SessionService) SaveResult(ctx context.Context, quizID, userID string, correct, total int) (domain.Result, error) {
	prior, err := s.results.CountResults(ctx, quizID, userID)
	if err != nil {
		return domain.Result{}, err
	}
	result := domain.Result{
		ID:             s.newID(),
		QuizID:         quizID,
		UserID:         userID,
		CorrectAnswers: correct,
		TotalQuestions: total,
		AttemptNumber:  prior + 1,
		SubmittedAt:    s.now(),
	}
	if err := s.results.AddResult(ctx, result); err != nil {
		return domain.Result{}, err
	}
	return result, nil
}

// QuizResults lists every recorded result for a quiz. Restricted to the
// quiz creator, since it exposes other users' attempts.
func (s *SessionService) QuizResults(ctx context.Context, creatorID, quizID string) ([]domain.Result, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatorID != creatorID {
		return nil, domain.ErrNotCreator
	}
	return s.results.ListResultsByQuiz(ctx, quizID)
}

// Subscribe returns a channel that receives attempt progress updates.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *SessionService) Subscribe(quizID, userID string) (<-chan domain.AttemptProgress, func(), error) {
	session, ok := s.sessions.Get(quizID, userID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Abandon stops the countdown and drops the session without a result.
func (s *SessionService) Abandon(quizID, userID string) {
	if session, ok := s.sessions.Get(quizID, userID); ok {
		session.stopCountdown()
	}
	s.sessions.Delete(quizID, userID)
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
