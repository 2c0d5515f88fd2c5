package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"

	"quizec-service/internal/domain"
)

// CreateUser inserts a new account document. The unique index on the email
// field turns duplicate sign-ups into ErrEmailInUse.
func (s *Store) CreateUser(ctx context.Context, user domain.User) error {
	raw, err := marshalDoc(user)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO users (id, data) VALUES ($1, $2::jsonb)`, user.ID, raw)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrEmailInUse
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser loads one account document.
func (s *Store) GetUser(ctx context.Context, userID string) (domain.User, error) {
	var user domain.User
	if err := s.getDoc(ctx, "users", userID, &user, domain.ErrUserNotFound); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// GetUserByEmail resolves an account by its email field.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	found := false
	err := s.queryDocs(ctx,
		`SELECT data FROM users WHERE data->>'email'=$1 LIMIT 1`,
		func(raw []byte) error {
			found = true
			return unmarshalDoc(raw, &user)
		}, email)
	if err != nil {
		return domain.User{}, err
	}
	if !found {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

// UpdateUser replaces an account document.
func (s *Store) UpdateUser(ctx context.Context, user domain.User) error {
	raw, err := marshalDoc(user)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET data=$2::jsonb WHERE id=$1`, user.ID, raw)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
