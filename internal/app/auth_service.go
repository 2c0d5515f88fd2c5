package app

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"quizec-service/internal/domain"
)

// AuthService wraps sign-up and sign-in and issues bearer tokens. The
// resulting user ID is what the rest of the system consumes as creatorId
// and userId.
type AuthService struct {
	users    UserRepository
	results  ResultRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
	newID    func() string
}

func NewAuthService(users UserRepository, results ResultRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		results:  results,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Register creates an account and returns the user with a signed token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.User, string, error) {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, "", domain.ErrEmailInUse
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", err
	}

	user := domain.User{
		ID:                  s.newID(),
		Name:                name,
		Email:               email,
		Role:                "user",
		JoinDate:            s.now(),
		ParticipatedQuizzes: []string{},
		CompletedQuizzes:    []string{},
		PasswordHash:        string(hash),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return domain.User{}, "", err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Login verifies the credentials and returns the user with a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Profile returns the account document for userID.
func (s *AuthService) Profile(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetUser(ctx, userID)
}

// History returns every result the user has recorded, newest first per
// the repository's ordering.
func (s *AuthService) History(ctx context.Context, userID string) ([]domain.Result, error) {
	return s.results.ListResultsByUser(ctx, userID)
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyToken parses a bearer token and returns the user ID it carries.
func (s *AuthService) VerifyToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidCredentials
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", domain.ErrInvalidCredentials
	}
	return claims.Subject, nil
}
