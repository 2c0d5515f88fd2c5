package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"quizec-service/internal/domain"
)

// joinRadiusMeters is how close a user must be to a geo-restricted quiz's
// location to join it.
const joinRadiusMeters = 100

// QuizService contains the authoring and participation use cases: quiz
// CRUD, the creator's lock toggle, joining, and the playing-set driven
// status transitions.
type QuizService struct {
	quizzes   QuizRepository
	questions QuestionRepository
	users     UserRepository
	sessions  SessionRepository
	now       func() time.Time
	newID     func() string

	mu         sync.Mutex
	lifecycles map[string]*domain.Lifecycle
}

func NewQuizService(quizzes QuizRepository, questions QuestionRepository, users UserRepository, sessions SessionRepository) *QuizService {
	return &QuizService{
		quizzes:    quizzes,
		questions:  questions,
		users:      users,
		sessions:   sessions,
		now:        time.Now,
		newID:      uuid.NewString,
		lifecycles: make(map[string]*domain.Lifecycle),
	}
}

// QuestionInput is the authoring payload for one question.
type QuestionInput struct {
	Title          string              `json:"title"`
	Type           domain.QuestionType `json:"type"`
	Options        []string            `json:"options"`
	CorrectAnswers []string            `json:"correctAnswers"`
	ImageURL       string              `json:"imageUrl"`
	BaseText       string              `json:"baseText"`
}

// QuizInput is the authoring payload for a quiz and its questions.
type QuizInput struct {
	Title                  string           `json:"title"`
	Description            string           `json:"description"`
	ImageURL               string           `json:"imageUrl"`
	TimeLimitMinutes       int              `json:"timeLimit"`
	GeolocationRestricted  bool             `json:"isGeolocationRestricted"`
	Location               *domain.Location `json:"location"`
	AccessControlled       bool             `json:"isAccessControlled"`
	ShowResultsImmediately bool             `json:"showResultsImmediately"`
	Questions              []QuestionInput  `json:"questions"`
}

func (in QuizInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: quiz title is required", domain.ErrInvalidInput)
	}
	if in.TimeLimitMinutes <= 0 {
		return fmt.Errorf("%w: time limit must be at least one minute", domain.ErrInvalidInput)
	}
	if in.GeolocationRestricted && in.Location == nil {
		return fmt.Errorf("%w: geo-restricted quiz needs a location", domain.ErrInvalidInput)
	}
	for i, q := range in.Questions {
		if err := q.validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

func (in QuestionInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown question type %q", domain.ErrInvalidInput, in.Type)
	}
	if len(in.CorrectAnswers) == 0 {
		return fmt.Errorf("%w: at least one correct answer is required", domain.ErrInvalidInput)
	}
	switch in.Type {
	case domain.TypeTrueFalse, domain.TypeSingleChoice:
		if len(in.CorrectAnswers) != 1 {
			return fmt.Errorf("exactly one correct answer is required")
		}
	case domain.TypeMatching, domain.TypeAssociation:
		if len(in.Options) != len(in.CorrectAnswers) {
			return fmt.Errorf("options and answers must pair up")
		}
	case domain.TypeOrdering:
		if len(in.Options) != len(in.CorrectAnswers) {
			return fmt.Errorf("the stored order must cover every option")
		}
	}
	return nil
}

// CreateQuiz persists a new quiz and its questions.
func (s *QuizService) CreateQuiz(ctx context.Context, creatorID string, input QuizInput) (domain.Quiz, error) {
	if err := input.validate(); err != nil {
		return domain.Quiz{}, err
	}

	quiz := domain.Quiz{
		ID:                     s.newID(),
		Title:                  input.Title,
		Description:            input.Description,
		CreatorID:              creatorID,
		ImageURL:               input.ImageURL,
		TimeLimitMinutes:       input.TimeLimitMinutes,
		GeolocationRestricted:  input.GeolocationRestricted,
		Location:               input.Location,
		AccessControlled:       input.AccessControlled,
		ShowResultsImmediately: input.ShowResultsImmediately,
		Status:                 domain.StatusAvailable,
		Participants:           []string{},
		PlayingUsers:           []string{},
		CreatedAt:              s.now(),
	}

	for _, qin := range input.Questions {
		question := domain.Question{
			ID:             s.newID(),
			QuizID:         quiz.ID,
			Title:          qin.Title,
			Type:           qin.Type,
			Options:        qin.Options,
			CorrectAnswers: qin.CorrectAnswers,
			ImageURL:       qin.ImageURL,
			BaseText:       qin.BaseText,
		}
		if err := s.questions.SaveQuestion(ctx, question); err != nil {
			return domain.Quiz{}, err
		}
		quiz.QuestionIDs = append(quiz.QuestionIDs, question.ID)
	}

	if err := s.quizzes.SaveQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// GetQuiz loads one quiz document.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// GetQuizQuestions returns the quiz's questions in question-list order.
func (s *QuizService) GetQuizQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Question)
	listed, err := s.questions.ListQuestionsByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	for _, q := range listed {
		byID[q.ID] = q
	}
	ordered := make([]domain.Question, 0, len(quiz.QuestionIDs))
	for _, id := range quiz.QuestionIDs {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

// ListCreatorQuizzes returns every quiz authored by creatorID.
func (s *QuizService) ListCreatorQuizzes(ctx context.Context, creatorID string) ([]domain.Quiz, error) {
	return s.quizzes.ListQuizzesByCreator(ctx, creatorID)
}

// UpdateQuiz replaces a quiz's metadata and questions. Only the creator
// may update.
func (s *QuizService) UpdateQuiz(ctx context.Context, creatorID, quizID string, input QuizInput) (domain.Quiz, error) {
	if err := input.validate(); err != nil {
		return domain.Quiz{}, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if quiz.CreatorID != creatorID {
		return domain.Quiz{}, domain.ErrNotCreator
	}

	if err := s.questions.DeleteQuestions(ctx, quiz.QuestionIDs); err != nil {
		return domain.Quiz{}, err
	}
	quiz.QuestionIDs = nil
	for _, qin := range input.Questions {
		question := domain.Question{
			ID:             s.newID(),
			QuizID:         quiz.ID,
			Title:          qin.Title,
			Type:           qin.Type,
			Options:        qin.Options,
			CorrectAnswers: qin.CorrectAnswers,
			ImageURL:       qin.ImageURL,
			BaseText:       qin.BaseText,
		}
		if err := s.questions.SaveQuestion(ctx, question); err != nil {
			return domain.Quiz{}, err
		}
		quiz.QuestionIDs = append(quiz.QuestionIDs, question.ID)
	}

	quiz.Title = input.Title
	quiz.Description = input.Description
	quiz.ImageURL = input.ImageURL
	quiz.TimeLimitMinutes = input.TimeLimitMinutes
	quiz.GeolocationRestricted = input.GeolocationRestricted
	quiz.Location = input.Location
	quiz.AccessControlled = input.AccessControlled
	quiz.ShowResultsImmediately = input.ShowResultsImmediately

	if err := s.quizzes.SaveQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// DuplicateQuiz copies a quiz and its questions under fresh IDs, with a
// clean participant list and AVAILABLE status.
func (s *QuizService) DuplicateQuiz(ctx context.Context, creatorID, quizID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if quiz.CreatorID != creatorID {
		return domain.Quiz{}, domain.ErrNotCreator
	}

	copyQuiz := quiz
	copyQuiz.ID = s.newID()
	copyQuiz.Title = quiz.Title + " (copy)"
	copyQuiz.Status = domain.StatusAvailable
	copyQuiz.Participants = []string{}
	copyQuiz.PlayingUsers = []string{}
	copyQuiz.QuestionIDs = nil
	copyQuiz.CreatedAt = s.now()

	for _, id := range quiz.QuestionIDs {
		question, err := s.questions.GetQuestion(ctx, id)
		if err != nil {
			// Dangling question IDs are skipped rather than failing the copy.
			continue
		}
		question.ID = s.newID()
		question.QuizID = copyQuiz.ID
		if err := s.questions.SaveQuestion(ctx, question); err != nil {
			return domain.Quiz{}, err
		}
		copyQuiz.QuestionIDs = append(copyQuiz.QuestionIDs, question.ID)
	}

	if err := s.quizzes.SaveQuiz(ctx, copyQuiz); err != nil {
		return domain.Quiz{}, err
	}
	return copyQuiz, nil
}

// DeleteQuiz removes a quiz and best-effort cascades to its questions.
func (s *QuizService) DeleteQuiz(ctx context.Context, creatorID, quizID string) error {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if quiz.CreatorID != creatorID {
		return domain.ErrNotCreator
	}
	// Question cleanup is best effort; the quiz document is the gate.
	_ = s.questions.DeleteQuestions(ctx, quiz.QuestionIDs)
	return s.quizzes.DeleteQuiz(ctx, quizID)
}

// ToggleLock flips an access-controlled quiz between AVAILABLE and LOCKED.
// Quizzes without access control are left unchanged.
func (s *QuizService) ToggleLock(ctx context.Context, creatorID, quizID string) (domain.QuizStatus, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return "", err
	}
	if quiz.CreatorID != creatorID {
		return "", domain.ErrNotCreator
	}
	if !quiz.AccessControlled {
		return quiz.Status, domain.ErrNotAccessControlled
	}

	next := quiz.Status
	switch quiz.Status {
	case domain.StatusAvailable:
		next = domain.StatusLocked
	case domain.StatusLocked:
		next = domain.StatusAvailable
	default:
		return quiz.Status, nil
	}
	if err := s.quizzes.UpdateStatus(ctx, quizID, next); err != nil {
		return "", err
	}
	s.dropLifecycle(quizID)
	return next, nil
}

// JoinQuiz adds a user to a quiz's participants after the geo and access
// gates pass. Joining twice is a no-op.
func (s *QuizService) JoinQuiz(ctx context.Context, quizID, userID string, loc *domain.Location) error {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if quiz.GeolocationRestricted && quiz.Location != nil {
		if loc == nil || !domain.WithinRadius(*quiz.Location, *loc, joinRadiusMeters) {
			return domain.ErrOutsideQuizArea
		}
	}
	if !quiz.CanJoin(userID) {
		return domain.ErrQuizLocked
	}
	if err := s.quizzes.AddParticipant(ctx, quizID, userID); err != nil {
		return err
	}
	if user, uerr := s.users.GetUser(ctx, userID); uerr == nil {
		user.ParticipatedQuizzes = appendUnique(user.ParticipatedQuizzes, quizID)
		_ = s.users.UpdateUser(ctx, user)
	}
	return nil
}

// SetPlaying records that a user started or stopped actively playing and
// feeds the resulting playing set through the quiz lifecycle. When the
// lifecycle reaches FINISHED, every live session for the quiz is ended
// with its remaining time zeroed.
func (s *QuizService) SetPlaying(ctx context.Context, quizID, userID string, playing bool) (domain.QuizStatus, error) {
	if err := s.quizzes.SetPlaying(ctx, quizID, userID, playing); err != nil {
		return "", err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return "", err
	}

	machine := s.lifecycle(quizID, quiz.Status)
	status, changed := machine.ObservePlaying(quiz.PlayingUsers)
	if !changed {
		return status, nil
	}
	if err := s.quizzes.UpdateStatus(ctx, quizID, status); err != nil {
		return "", err
	}
	if status == domain.StatusFinished {
		for _, session := range s.sessions.ForQuiz(quizID) {
			session.finish(true)
		}
		s.dropLifecycle(quizID)
	}
	return status, nil
}

func (s *QuizService) lifecycle(quizID string, status domain.QuizStatus) *domain.Lifecycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if machine, ok := s.lifecycles[quizID]; ok {
		return machine
	}
	machine := domain.NewLifecycle(status)
	s.lifecycles[quizID] = machine
	return machine
}

func (s *QuizService) dropLifecycle(quizID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lifecycles, quizID)
}
