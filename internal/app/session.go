package app

import (
	"sync"
	"time"

	"quizec-service/internal/domain"
)

// Session holds the in-memory state of one quiz attempt: the loaded quiz,
// the current question and its index, the correct-answer tally, and the
// countdown. It is shared between the service and the transport, so all
// state is guarded by mu.
type Session struct {
	quizID string
	userID string
	tick   time.Duration
	now    func() time.Time

	mu          sync.RWMutex
	quiz        domain.Quiz
	current     domain.Question
	hasCurrent  bool
	index       int
	answers     map[string]bool
	remaining   int
	finished    bool
	stopTimer   chan struct{}
	subscribers map[chan domain.AttemptProgress]struct{}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(quizID, userID string) *Session {
	return newSessionWithTick(quizID, userID, time.Second, time.Now)
}

// NewSessionWithTick is test-only for fast countdowns and deterministic
// timestamps.
func NewSessionWithTick(quizID, userID string, tick time.Duration, now func() time.Time) *Session {
	return newSessionWithTick(quizID, userID, tick, now)
}

func newSessionWithTick(quizID, userID string, tick time.Duration, now func() time.Time) *Session {
	return &Session{
		quizID:      quizID,
		userID:      userID,
		tick:        tick,
		now:         now,
		subscribers: make(map[chan domain.AttemptProgress]struct{}),
	}
}

// seedQuiz resets the attempt from a freshly loaded quiz document. The
// countdown budget is the quiz time limit in whole minutes.
func (s *Session) seedQuiz(quiz domain.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiz = quiz
	s.index = 0
	s.answers = make(map[string]bool)
	s.remaining = quiz.TimeLimitMinutes * 60
	s.finished = false
	s.hasCurrent = false
	s.broadcastLocked()
}

// setQuestion installs a fetched question as current and recomputes the
// index from the quiz's question list.
func (s *Session) setQuestion(question domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range s.quiz.QuestionIDs {
		if id == question.ID {
			s.current = question
			s.hasCurrent = true
			s.index = i
			s.broadcastLocked()
			return nil
		}
	}
	return domain.ErrQuestionNotInQuiz
}

// firstQuestionID returns the first question to load, or "" for an empty quiz.
func (s *Session) firstQuestionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.quiz.QuestionIDs) == 0 {
		return ""
	}
	return s.quiz.QuestionIDs[0]
}

// nextQuestionID returns the ID after the current index. Stepping past the
// last question marks the attempt finished instead of failing, and stays
// finished on repeated calls.
func (s *Session) nextQuestionID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return "", true
	}
	if s.index+1 >= len(s.quiz.QuestionIDs) {
		s.finishLocked(false)
		return "", true
	}
	return s.quiz.QuestionIDs[s.index+1], false
}

// previousQuestionID returns the ID before the current index; at the first
// question it is a no-op and reports false.
func (s *Session) previousQuestionID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == 0 || len(s.quiz.QuestionIDs) == 0 {
		return "", false
	}
	return s.quiz.QuestionIDs[s.index-1], true
}

// currentQuestion returns the installed question, if any.
func (s *Session) currentQuestion() (domain.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.hasCurrent
}

// recordAnswer stores the verdict for one question. Each question counts
// at most once toward the tally; re-answering replaces the earlier verdict.
func (s *Session) recordAnswer(questionID string, correct bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.answers == nil {
		s.answers = make(map[string]bool)
	}
	s.answers[questionID] = correct
	s.broadcastLocked()
}

// tally returns the correct count and the question total.
func (s *Session) tally() (correct, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.correctLocked(), len(s.quiz.QuestionIDs)
}

func (s *Session) correctLocked() int {
	correct := 0
	for _, ok := range s.answers {
		if ok {
			correct++
		}
	}
	return correct
}

func (s *Session) isFinished() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finished
}

// startCountdown launches the one-second decrement loop. Only one countdown
// runs at a time; starting a new one cancels the previous.
func (s *Session) startCountdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCountdownLocked()
	if s.remaining <= 0 {
		return
	}
	stop := make(chan struct{})
	s.stopTimer = stop
	go s.runCountdown(stop)
}

func (s *Session) runCountdown(stop chan struct{}) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if s.decrementRemaining() {
				return
			}
		}
	}
}

// decrementRemaining ticks the clock down and finishes the attempt at zero.
// It reports whether the countdown should stop.
func (s *Session) decrementRemaining() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return true
	}
	s.remaining--
	if s.remaining <= 0 {
		s.remaining = 0
		s.finishLocked(false)
		return true
	}
	s.broadcastLocked()
	return false
}

// stopCountdown cancels the active countdown, if any.
func (s *Session) stopCountdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCountdownLocked()
}

func (s *Session) stopCountdownLocked() {
	if s.stopTimer != nil {
		close(s.stopTimer)
		s.stopTimer = nil
	}
}

// finish ends the attempt. zeroRemaining forces the clock to 0, used when
// the quiz itself transitions to finished.
func (s *Session) finish(zeroRemaining bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishLocked(zeroRemaining)
}

func (s *Session) finishLocked(zeroRemaining bool) {
	if zeroRemaining {
		s.remaining = 0
	}
	if s.finished {
		return
	}
	s.finished = true
	s.stopCountdownLocked()
	s.broadcastLocked()
}

// remainingSeconds returns the countdown value.
func (s *Session) remainingSeconds() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remaining
}

// progress returns the current attempt snapshot.
func (s *Session) progress() domain.AttemptProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) subscribe() (<-chan domain.AttemptProgress, func()) {
	ch := make(chan domain.AttemptProgress, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() domain.AttemptProgress {
	progress := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- progress:
		default:
			// Drop the oldest update so a slow client never blocks the attempt.
			select {
			case <-ch:
			default:
			}
			ch <- progress
		}
	}
	return progress
}

func (s *Session) snapshotLocked() domain.AttemptProgress {
	questionID := ""
	if s.hasCurrent {
		questionID = s.current.ID
	}
	return domain.AttemptProgress{
		QuizID:           s.quizID,
		UserID:           s.userID,
		QuestionID:       questionID,
		QuestionIndex:    s.index,
		TotalQuestions:   len(s.quiz.QuestionIDs),
		CorrectAnswers:   s.correctLocked(),
		RemainingSeconds: s.remaining,
		Finished:         s.finished,
		UpdatedAt:        s.now(),
	}
}
