package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quizec-service/internal/app"
	"quizec-service/internal/domain"
	"quizec-service/internal/infra/memory"
)

type wsEnv struct {
	server  *httptest.Server
	auth    *app.AuthService
	quizSvc *app.QuizService
}

func newWSEnv(t *testing.T) *wsEnv {
	t.Helper()
	quizzes := memory.NewQuizStore()
	questions := memory.NewQuestionStore()
	results := memory.NewResultStore()
	users := memory.NewUserStore()
	sessions := memory.NewSessionStore()

	auth := app.NewAuthService(users, results, "test-secret", time.Hour)
	quizSvc := app.NewQuizService(quizzes, questions, users, sessions)
	sessionSvc := app.NewSessionService(sessions, quizzes, questions, results, users)
	handler := NewWSHandler(sessionSvc, quizSvc, auth)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &wsEnv{server: server, auth: auth, quizSvc: quizSvc}
}

func (e *wsEnv) createQuiz(t *testing.T, showResults bool) (domain.Quiz, string) {
	t.Helper()
	_, token, err := e.auth.Register(context.Background(), "Alice", "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	creatorID, err := e.auth.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}

	quiz, err := e.quizSvc.CreateQuiz(context.Background(), creatorID, app.QuizInput{
		Title:                  "Capitals",
		TimeLimitMinutes:       5,
		ShowResultsImmediately: showResults,
		Questions: []app.QuestionInput{
			{
				Title:          "Capital of France?",
				Type:           domain.TypeSingleChoice,
				Options:        []string{"Paris", "Lyon"},
				CorrectAnswers: []string{"Paris"},
			},
		},
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz, token
}

func (e *wsEnv) dial(t *testing.T, quizID, token string) *websocket.Conn {
	t.Helper()
	u := "ws" + e.server.URL[len("http"):] + "/ws?quizId=" + quizID + "&token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil skips interleaved progress pushes until a message of the wanted
// type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) map[string]any {
	t.Helper()
	for i := 0; i < 20; i++ {
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]any `json:"payload"`
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type == want {
			return msg.Payload
		}
		if msg.Type == "error" {
			t.Fatalf("unexpected error message: %v", msg.Payload)
		}
	}
	t.Fatalf("never received %q", want)
	return nil
}

func TestWebSocketAttemptFlow(t *testing.T) {
	env := newWSEnv(t)
	quiz, token := env.createQuiz(t, true)
	conn := env.dial(t, quiz.ID, token)

	started := readUntil(t, conn, "started")
	if remaining := started["remainingSeconds"].(float64); remaining < 295 || remaining > 300 {
		t.Fatalf("expected ~300s budget, got %v", remaining)
	}

	question := readUntil(t, conn, "question")
	if question["title"] != "Capital of France?" {
		t.Fatalf("unexpected question %v", question)
	}
	if _, leaked := question["correctAnswers"]; leaked {
		t.Fatalf("question payload must not carry correct answers")
	}

	answer := map[string]any{
		"type":    "answer",
		"payload": map[string]any{"selected": []string{"Paris"}},
	}
	if err := conn.WriteJSON(answer); err != nil {
		t.Fatalf("write answer: %v", err)
	}
	result := readUntil(t, conn, "answerResult")
	if result["correct"] != true {
		t.Fatalf("expected immediate correct verdict, got %v", result)
	}

	if err := conn.WriteJSON(map[string]any{"type": "next"}); err != nil {
		t.Fatalf("write next: %v", err)
	}
	final := readUntil(t, conn, "finished")
	if final["correctAnswers"].(float64) != 1 || final["totalQuestions"].(float64) != 1 {
		t.Fatalf("unexpected final result %v", final)
	}
	if final["attemptNumber"].(float64) != 1 {
		t.Fatalf("expected attempt 1, got %v", final["attemptNumber"])
	}
}

func TestWebSocketHidesVerdictWhenResultsDeferred(t *testing.T) {
	env := newWSEnv(t)
	quiz, token := env.createQuiz(t, false)
	conn := env.dial(t, quiz.ID, token)

	readUntil(t, conn, "started")
	readUntil(t, conn, "question")

	answer := map[string]any{
		"type":    "answer",
		"payload": map[string]any{"selected": []string{"Paris"}},
	}
	if err := conn.WriteJSON(answer); err != nil {
		t.Fatalf("write answer: %v", err)
	}
	result := readUntil(t, conn, "answerResult")
	if _, present := result["correct"]; present {
		t.Fatalf("verdict must be withheld, got %v", result)
	}
}

func TestWebSocketRejectsBadToken(t *testing.T) {
	env := newWSEnv(t)
	quiz, _ := env.createQuiz(t, true)

	u := "ws" + env.server.URL[len("http"):] + "/ws?quizId=" + quiz.ID + "&token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp)
	}
}
