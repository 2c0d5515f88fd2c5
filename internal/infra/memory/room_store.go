package memory

import (
	"context"
	"sync"

	"quizec-service/internal/domain"
)

// RoomStore is an in-memory implementation of app.RoomRepository.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]domain.QuizRoom
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]domain.QuizRoom)}
}

func (s *RoomStore) SaveRoom(_ context.Context, room domain.QuizRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = room
	return nil
}

func (s *RoomStore) GetRoom(_ context.Context, code string) (domain.QuizRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return domain.QuizRoom{}, domain.ErrRoomNotFound
	}
	return room, nil
}

func (s *RoomStore) AddRoomParticipant(_ context.Context, code, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return domain.ErrRoomNotFound
	}
	room.Participants = addToSet(room.Participants, userID)
	s.rooms[code] = room
	return nil
}

func (s *RoomStore) DeleteRoom(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}
