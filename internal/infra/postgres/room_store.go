package postgres

import (
	"context"
	"fmt"

	"quizec-service/internal/domain"
)

// SaveRoom upserts a join-code room document. Rooms in Postgres never
// expire on their own; the Redis store is the one that ages codes out.
func (s *Store) SaveRoom(ctx context.Context, room domain.QuizRoom) error {
	return s.putDoc(ctx, "quiz_rooms", room.Code, room)
}

// GetRoom loads a room by its join code.
func (s *Store) GetRoom(ctx context.Context, code string) (domain.QuizRoom, error) {
	var room domain.QuizRoom
	if err := s.getDoc(ctx, "quiz_rooms", code, &room, domain.ErrRoomNotFound); err != nil {
		return domain.QuizRoom{}, err
	}
	return room, nil
}

// AddRoomParticipant unions userID into the room's participants array.
func (s *Store) AddRoomParticipant(ctx context.Context, code, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE quiz_rooms SET data = jsonb_set(data, '{participants}',
			(SELECT COALESCE(jsonb_agg(DISTINCT elem), '[]'::jsonb)
			 FROM jsonb_array_elements(COALESCE(data->'participants', '[]'::jsonb) || to_jsonb($2::text)) AS elem))
		 WHERE id=$1`,
		code, userID)
	if err != nil {
		return fmt.Errorf("union room participants: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

// DeleteRoom removes a room document.
func (s *Store) DeleteRoom(ctx context.Context, code string) error {
	return s.deleteDoc(ctx, "quiz_rooms", code)
}
