package memory

import (
	"sync"

	"quizec-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository,
// keyed by (quizID, userID).
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[sessionKey]*app.Session
}

type sessionKey struct {
	quizID string
	userID string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
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
	delete(s.sessions, sessionKey{quizID: quizID, userID: userID})
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
