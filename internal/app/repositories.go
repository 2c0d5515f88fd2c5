package app

import (
	"context"

	"quizec-service/internal/domain"
)

// QuizRepository stores quiz documents (backing store plus optional cache).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	SaveQuiz(ctx context.Context, quiz domain.Quiz) error
	DeleteQuiz(ctx context.Context, quizID string) error
	ListQuizzesByCreator(ctx context.Context, creatorID string) ([]domain.Quiz, error)
	// AddParticipant adds userID to the quiz's participant set. Adding an
	// existing participant is a no-op (set-union semantics).
	AddParticipant(ctx context.Context, quizID, userID string) error
	// SetPlaying adds or removes userID from the quiz's playing set.
	SetPlaying(ctx context.Context, quizID, userID string, playing bool) error
	UpdateStatus(ctx context.Context, quizID string, status domain.QuizStatus) error
}

// QuestionRepository stores question documents.
type QuestionRepository interface {
	GetQuestion(ctx context.Context, questionID string) (domain.Question, error)
	SaveQuestion(ctx context.Context, question domain.Question) error
	// DeleteQuestions removes a batch of questions, skipping missing IDs.
	DeleteQuestions(ctx context.Context, questionIDs []string) error
	ListQuestionsByQuiz(ctx context.Context, quizID string) ([]domain.Question, error)
}

// ResultRepository stores attempt results (append-only).
type ResultRepository interface {
	AddResult(ctx context.Context, result domain.Result) error
	// CountResults returns how many results exist for (quizID, userID).
	CountResults(ctx context.Context, quizID, userID string) (int, error)
	ListResultsByUser(ctx context.Context, userID string) ([]domain.Result, error)
	ListResultsByQuiz(ctx context.Context, quizID string) ([]domain.Result, error)
}

// UserRepository stores account documents.
type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, userID string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
}

// RoomRepository stores ephemeral join-code rooms.
type RoomRepository interface {
	SaveRoom(ctx context.Context, room domain.QuizRoom) error
	GetRoom(ctx context.Context, code string) (domain.QuizRoom, error)
	AddRoomParticipant(ctx context.Context, code, userID string) error
	DeleteRoom(ctx context.Context, code string) error
}

// SessionRepository tracks in-memory attempt sessions, one per
// (quiz, user) pair.
type SessionRepository interface {
	GetOrCreate(quizID, userID string) *Session
	Get(quizID, userID string) (*Session, bool)
	Delete(quizID, userID string)
	// ForQuiz returns every live session attached to a quiz.
	ForQuiz(quizID string) []*Session
}
