package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"quizec-service/internal/app"
	"quizec-service/internal/domain"
)

// WSHandler runs quiz attempts over a websocket: one connection per
// (quiz, user), carrying questions out and answers in.
type WSHandler struct {
	sessions *app.SessionService
	quizzes  *app.QuizService
	auth     *app.AuthService
	upgrader websocket.Upgrader
}

func NewWSHandler(sessions *app.SessionService, quizzes *app.QuizService, auth *app.AuthService) *WSHandler {
	return &WSHandler{
		sessions: sessions,
		quizzes:  quizzes,
		auth:     auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Selected []string      `json:"selected"`
	Pairs    []domain.Pair `json:"pairs"`
}

type answerResult struct {
	QuestionID string `json:"questionId"`
	// Correct is present only when the quiz reveals results immediately.
	Correct *bool `json:"correct,omitempty"`
}

// questionPayload mirrors a question without its correct answers.
type questionPayload struct {
	ID       string              `json:"id"`
	Title    string              `json:"title"`
	Type     domain.QuestionType `json:"type"`
	Options  []string            `json:"options"`
	ImageURL string              `json:"imageUrl,omitempty"`
	BaseText string              `json:"baseText,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func sanitizeQuestion(q domain.Question) questionPayload {
	return questionPayload{
		ID:       q.ID,
		Title:    q.Title,
		Type:     q.Type,
		Options:  q.Options,
		ImageURL: q.ImageURL,
		BaseText: q.BaseText,
	}
}

// ServeWS upgrades the request and drives one attempt: start, questions,
// answers, progress pushes, and the final result.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	token := r.URL.Query().Get("token")
	if quizID == "" || token == "" {
		http.Error(w, "missing quizId or token", http.StatusBadRequest)
		return
	}
	userID, err := h.auth.VerifyToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	quiz, err := h.quizzes.GetQuiz(r.Context(), quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	progress, err := h.sessions.StartAttempt(r.Context(), quizID, userID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	if _, err := h.quizzes.SetPlaying(r.Context(), quizID, userID, true); err != nil {
		log.Printf("ws mark playing: %v", err)
	}

	updates, cancel, err := h.sessions.Subscribe(quizID, userID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()
	defer func() {
		h.sessions.Abandon(quizID, userID)
		if _, err := h.quizzes.SetPlaying(r.Context(), quizID, userID, false); err != nil {
			log.Printf("ws clear playing: %v", err)
		}
	}()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "progress", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "started", Payload: progress}
	if question, err := h.sessions.CurrentQuestion(quizID, userID); err == nil {
		send <- outboundMessage[any]{Type: "question", Payload: sanitizeQuestion(question)}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			question, qerr := h.sessions.CurrentQuestion(quizID, userID)
			correct, err := h.sessions.SubmitAnswer(r.Context(), quizID, userID, domain.Submission{
				Selected: payload.Selected,
				Pairs:    payload.Pairs,
			})
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			result := answerResult{}
			if qerr == nil {
				result.QuestionID = question.ID
			}
			if quiz.ShowResultsImmediately {
				result.Correct = &correct
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: result}
		case "next":
			question, finished, err := h.sessions.NextQuestion(r.Context(), quizID, userID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			if finished {
				final, err := h.sessions.FinishAttempt(r.Context(), quizID, userID)
				if err != nil {
					send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
					continue
				}
				send <- outboundMessage[any]{Type: "finished", Payload: final}
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: sanitizeQuestion(question)}
		case "previous":
			question, err := h.sessions.PreviousQuestion(r.Context(), quizID, userID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: sanitizeQuestion(question)}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
