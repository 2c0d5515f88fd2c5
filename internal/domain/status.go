package domain

// QuizStatus is the quiz lifecycle state.
type QuizStatus string

const (
	StatusAvailable  QuizStatus = "AVAILABLE"
	StatusLocked     QuizStatus = "LOCKED"
	StatusInProgress QuizStatus = "IN_PROGRESS"
	StatusFinished   QuizStatus = "FINISHED"
)

// IsActive reports whether an attempt is currently running.
func (s QuizStatus) IsActive() bool { return s == StatusInProgress }

// IsFinished reports whether the quiz has ended.
func (s QuizStatus) IsFinished() bool { return s == StatusFinished }

// Lifecycle advances a quiz's status from observed changes to its playing
// set. The first non-empty playing set starts the quiz and is snapshotted;
// the quiz finishes once every snapshotted player has left.
type Lifecycle struct {
	status         QuizStatus
	initialPlayers map[string]struct{}
}

// NewLifecycle starts the machine from the quiz's persisted status.
func NewLifecycle(status QuizStatus) *Lifecycle {
	if status == "" {
		status = StatusAvailable
	}
	return &Lifecycle{status: status}
}

// Status returns the current state.
func (l *Lifecycle) Status() QuizStatus { return l.status }

// ObservePlaying feeds the current playing-user set into the machine and
// returns the resulting status together with whether it changed.
func (l *Lifecycle) ObservePlaying(playing []string) (QuizStatus, bool) {
	switch l.status {
	case StatusAvailable, StatusLocked:
		if len(playing) > 0 {
			l.initialPlayers = make(map[string]struct{}, len(playing))
			for _, id := range playing {
				l.initialPlayers[id] = struct{}{}
			}
			l.status = StatusInProgress
			return l.status, true
		}
	case StatusInProgress:
		// A machine seeded with IN_PROGRESS has no snapshot yet. Adopt the
		// first observed playing set instead of finishing a running quiz.
		if l.initialPlayers == nil && len(playing) > 0 {
			l.initialPlayers = make(map[string]struct{}, len(playing))
			for _, id := range playing {
				l.initialPlayers[id] = struct{}{}
			}
			return l.status, false
		}
		if l.anyInitialStillPlaying(playing) {
			return l.status, false
		}
		l.status = StatusFinished
		return l.status, true
	}
	return l.status, false
}

func (l *Lifecycle) anyInitialStillPlaying(playing []string) bool {
	for _, id := range playing {
		if _, ok := l.initialPlayers[id]; ok {
			return true
		}
	}
	return false
}
