package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizec-service/internal/app"
	"quizec-service/internal/domain"
	"quizec-service/internal/infra/memory"
)

func newAuthService() (*app.AuthService, *memory.UserStore, *memory.ResultStore) {
	users := memory.NewUserStore()
	results := memory.NewResultStore()
	return app.NewAuthService(users, results, "test-secret", time.Hour), users, results
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService()

	user, token, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" || token == "" {
		t.Fatalf("expected user ID and token, got %+v token=%q", user, token)
	}
	if user.Role != "user" {
		t.Fatalf("expected default role, got %q", user.Role)
	}

	subject, err := svc.VerifyToken(token)
	if err != nil || subject != user.ID {
		t.Fatalf("VerifyToken: subject=%q err=%v", subject, err)
	}

	loggedIn, token2, err := svc.Login(ctx, "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID || token2 == "" {
		t.Fatalf("login returned wrong user: %+v", loggedIn)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService()

	if _, _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := svc.Register(ctx, "Eve", "ada@example.com", "other"); !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService()

	if _, _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := svc.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "hunter2"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthService()
	if _, err := svc.VerifyToken("not-a-token"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// A token signed with a different secret must not verify.
	other := app.NewAuthService(memory.NewUserStore(), memory.NewResultStore(), "other-secret", time.Hour)
	_, token, err := other.Register(context.Background(), "Ada", "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.VerifyToken(token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for foreign token, got %v", err)
	}
}

func TestHistoryReturnsUserResults(t *testing.T) {
	ctx := context.Background()
	svc, _, results := newAuthService()

	now := time.Now()
	for i := 0; i < 3; i++ {
		_ = results.AddResult(ctx, domain.Result{
			ID:            "r" + string(rune('1'+i)),
			QuizID:        "quiz-1",
			UserID:        "player",
			AttemptNumber: i + 1,
			SubmittedAt:   now.Add(time.Duration(i) * time.Minute),
		})
	}
	_ = results.AddResult(ctx, domain.Result{ID: "other", QuizID: "quiz-1", UserID: "someone-else", SubmittedAt: now})

	history, err := svc.History(ctx, "player")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 results, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].SubmittedAt.After(history[i-1].SubmittedAt) {
			t.Fatalf("history not newest first: %v", history)
		}
	}
}
