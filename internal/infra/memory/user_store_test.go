package memory

import (
	"context"
	"testing"

	"quizec-service/internal/domain"
)

func TestUserStoreEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	if err := store.CreateUser(ctx, domain.User{ID: "u1", Email: "ada@example.com"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := store.CreateUser(ctx, domain.User{ID: "u2", Email: "ada@example.com"}); err != domain.ErrEmailInUse {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}

	user, err := store.GetUserByEmail(ctx, "ada@example.com")
	if err != nil || user.ID != "u1" {
		t.Fatalf("GetUserByEmail: user=%+v err=%v", user, err)
	}
	if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	if err := store.UpdateUser(ctx, domain.User{ID: "ghost"}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	_ = store.CreateUser(ctx, domain.User{ID: "u1", Email: "ada@example.com"})
	if err := store.UpdateUser(ctx, domain.User{ID: "u1", Email: "ada@example.com", Score: 7}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	user, _ := store.GetUser(ctx, "u1")
	if user.Score != 7 {
		t.Fatalf("expected score 7, got %d", user.Score)
	}
}
