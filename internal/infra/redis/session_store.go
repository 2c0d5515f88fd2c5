package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quizec-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions stay in a local map so the in-process countdown and broadcast
// logic keep working; Redis marks attempt liveness so operators (and a
// future cross-instance projector) can see which attempts are running.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[sessionKey]*app.Session
}

type sessionKey struct {
	quizID string
	userID string
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[sessionKey]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(quizID, userID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey{quizID: quizID, userID: userID}
	if session, ok := s.sessions[key]; ok {
		return session
	}
	session := app.NewSession(quizID, userID)
	s.sessions[key] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.redisKey(quizID, userID), "1", s.ttl).Err()
	return session
}

func (s *SessionStore) Get(quizID, userID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionKey{quizID: quizID, userID: userID}]
	return session, ok
}

func (s *SessionStore) Delete(quizID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey{quizID: quizID, userID: userID}
	if _, ok := s.sessions[key]; !ok {
		return
	}
	delete(s.sessions, key)
	_ = s.client.Del(context.Background(), s.redisKey(quizID, userID)).Err()
}

func (s *SessionStore) ForQuiz(quizID string) []*app.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sessions []*app.Session
	for key, session := range s.sessions {
		if key.quizID == quizID {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

func (s *SessionStore) redisKey(quizID, userID string) string {
	return "quiz:session:" + quizID + ":" + userID
}
