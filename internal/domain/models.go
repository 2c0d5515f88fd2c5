package domain

import "time"

// Location is a latitude/longitude pair in degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Quiz is the authored quiz document. Questions are stored separately and
// referenced by ID so they can be fetched one at a time during an attempt.
type Quiz struct {
	ID                     string     `json:"id"`
	Title                  string     `json:"title"`
	Description            string     `json:"description"`
	CreatorID              string     `json:"creatorId"`
	QuestionIDs            []string   `json:"questionIds"`
	ImageURL               string     `json:"imageUrl,omitempty"`
	TimeLimitMinutes       int        `json:"timeLimit"`
	GeolocationRestricted  bool       `json:"isGeolocationRestricted"`
	Location               *Location  `json:"location,omitempty"`
	AccessControlled       bool       `json:"isAccessControlled"`
	ShowResultsImmediately bool       `json:"showResultsImmediately"`
	Status                 QuizStatus `json:"status"`
	Participants           []string   `json:"participants"`
	PlayingUsers           []string   `json:"playingUsers"`
	CreatedAt              time.Time  `json:"createdAt"`
}

// HasParticipant reports whether userID already joined the quiz.
func (q Quiz) HasParticipant(userID string) bool {
	for _, id := range q.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// CanJoin applies the access rule: open quizzes accept anyone, controlled
// quizzes accept only users who are already participants.
func (q Quiz) CanJoin(userID string) bool {
	if !q.AccessControlled {
		return true
	}
	return q.HasParticipant(userID)
}

// Question is a single question document. The meaning of Options and
// CorrectAnswers depends on Type; see Evaluate.
type Question struct {
	ID             string       `json:"id"`
	QuizID         string       `json:"quizId"`
	Title          string       `json:"title"`
	Type           QuestionType `json:"type"`
	Options        []string     `json:"options"`
	CorrectAnswers []string     `json:"correctAnswers"`
	ImageURL       string       `json:"imageUrl,omitempty"`
	// BaseText carries the sentence with blank markers for the
	// fill-in archetypes.
	BaseText string `json:"baseText,omitempty"`
}

// Result records one finished attempt. Only the aggregate tally is kept;
// individual answers are not persisted.
type Result struct {
	ID             string    `json:"id"`
	QuizID         string    `json:"quizId"`
	UserID         string    `json:"userId"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
	AttemptNumber  int       `json:"attemptNumber"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// User is the account document.
type User struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Role                string    `json:"role"`
	JoinDate            time.Time `json:"joinDate"`
	ParticipatedQuizzes []string  `json:"participatedQuizzes"`
	CompletedQuizzes    []string  `json:"completedQuizzes"`
	Score               int       `json:"score"`
	PasswordHash        string    `json:"passwordHash"`
}

// QuizRoom is an ephemeral join-code session for a quiz.
type QuizRoom struct {
	Code         string    `json:"code"`
	QuizID       string    `json:"quizId"`
	CreatorID    string    `json:"creatorId"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasParticipant reports whether userID already joined the room.
func (r QuizRoom) HasParticipant(userID string) bool {
	for _, id := range r.Participants {
		if id == userID {
			return true
		}
	}
	return false
}
