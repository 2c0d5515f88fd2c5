package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz document could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a question ID does not resolve to a document.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrQuestionNotInQuiz is returned when a fetched question's ID is absent
	// from the owning quiz's question list. Only corrupted data triggers this.
	ErrQuestionNotInQuiz = errors.New("question not found in quiz")
	// ErrUserNotFound indicates the user document could not be loaded.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailInUse is returned when sign-up reuses a registered email.
	ErrEmailInUse = errors.New("email already in use")
	// ErrInvalidCredentials is returned for a failed sign-in.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrRoomNotFound indicates an unknown or expired join code.
	ErrRoomNotFound = errors.New("room not found")
	// ErrSessionNotFound is returned when a quiz attempt has not been started.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrNotAccessControlled is returned when locking a quiz that has no
	// access control; the toggle is defined only for controlled quizzes.
	ErrNotAccessControlled = errors.New("quiz is not access controlled")
	// ErrQuizLocked is returned when a new user tries to join a locked quiz.
	ErrQuizLocked = errors.New("quiz is locked")
	// ErrOutsideQuizArea is returned when a geo-restricted quiz is joined
	// from outside its allowed radius.
	ErrOutsideQuizArea = errors.New("user is outside the quiz area")
	// ErrNotCreator is returned when someone other than the quiz creator
	// invokes a creator-only action.
	ErrNotCreator = errors.New("user is not the quiz creator")
	// ErrInvalidInput wraps authoring validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
