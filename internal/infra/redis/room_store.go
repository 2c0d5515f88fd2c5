package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"quizec-service/internal/domain"
)

// RoomStore keeps join-code rooms in Redis so codes expire on their own.
// Keys: quiz:room:{code}
type RoomStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoomStore(client *redis.Client, ttl time.Duration) *RoomStore {
	return &RoomStore{client: client, ttl: ttl}
}

func (s *RoomStore) SaveRoom(ctx context.Context, room domain.QuizRoom) error {
	raw, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(room.Code), raw, s.ttl).Err()
}

func (s *RoomStore) GetRoom(ctx context.Context, code string) (domain.QuizRoom, error) {
	raw, err := s.client.Get(ctx, s.key(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.QuizRoom{}, domain.ErrRoomNotFound
	}
	if err != nil {
		return domain.QuizRoom{}, err
	}
	var room domain.QuizRoom
	if err := json.Unmarshal(raw, &room); err != nil {
		return domain.QuizRoom{}, domain.ErrRoomNotFound
	}
	return room, nil
}

func (s *RoomStore) AddRoomParticipant(ctx context.Context, code, userID string) error {
	room, err := s.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	if room.HasParticipant(userID) {
		return nil
	}
	room.Participants = append(room.Participants, userID)
	raw, err := json.Marshal(room)
	if err != nil {
		return err
	}
	// Joining keeps the code's original expiry.
	return s.client.Set(ctx, s.key(code), raw, redis.KeepTTL).Err()
}

func (s *RoomStore) DeleteRoom(ctx context.Context, code string) error {
	return s.client.Del(ctx, s.key(code)).Err()
}

func (s *RoomStore) key(code string) string {
	return "quiz:room:" + code
}
