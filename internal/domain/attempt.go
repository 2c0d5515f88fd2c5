package domain

import "time"

// AttemptProgress is a snapshot of one running quiz attempt, suitable for
// pushing to subscribed clients.
type AttemptProgress struct {
	QuizID           string    `json:"quizId"`
	UserID           string    `json:"userId"`
	QuestionID       string    `json:"questionId,omitempty"`
	QuestionIndex    int       `json:"questionIndex"`
	TotalQuestions   int       `json:"totalQuestions"`
	CorrectAnswers   int       `json:"correctAnswers"`
	RemainingSeconds int       `json:"remainingSeconds"`
	Finished         bool      `json:"finished"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
