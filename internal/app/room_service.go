package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quizec-service/internal/domain"
)

const roomCodeLength = 6

const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RoomService manages join-code rooms: short-lived codes a creator hands
// out so participants can find a quiz without its ID.
type RoomService struct {
	rooms   RoomRepository
	quizzes QuizRepository
	now     func() time.Time

	rndMu sync.Mutex // rand.Rand is not safe for concurrent handlers
	rnd   *rand.Rand
}

func NewRoomService(rooms RoomRepository, quizzes QuizRepository) *RoomService {
	return &RoomService{
		rooms:   rooms,
		quizzes: quizzes,
		now:     time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateRoom opens a room for the creator's quiz and returns it with its
// join code.
func (s *RoomService) CreateRoom(ctx context.Context, creatorID, quizID string) (domain.QuizRoom, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizRoom{}, err
	}
	if quiz.CreatorID != creatorID {
		return domain.QuizRoom{}, domain.ErrNotCreator
	}

	room := domain.QuizRoom{
		Code:         s.newCode(),
		QuizID:       quizID,
		CreatorID:    creatorID,
		Participants: []string{},
		CreatedAt:    s.now(),
	}
	if err := s.rooms.SaveRoom(ctx, room); err != nil {
		return domain.QuizRoom{}, err
	}
	return room, nil
}

// JoinRoom resolves a join code, adds the user to the room, and registers
// them as a quiz participant.
func (s *RoomService) JoinRoom(ctx context.Context, code, userID string) (domain.QuizRoom, error) {
	room, err := s.rooms.GetRoom(ctx, code)
	if err != nil {
		return domain.QuizRoom{}, err
	}
	if err := s.rooms.AddRoomParticipant(ctx, code, userID); err != nil {
		return domain.QuizRoom{}, err
	}
	// Room joiners bypass the lock gate; holding the code is the invitation.
	if err := s.quizzes.AddParticipant(ctx, room.QuizID, userID); err != nil {
		return domain.QuizRoom{}, err
	}
	return s.rooms.GetRoom(ctx, code)
}

// GetRoom resolves a join code.
func (s *RoomService) GetRoom(ctx context.Context, code string) (domain.QuizRoom, error) {
	return s.rooms.GetRoom(ctx, code)
}

// CloseRoom deletes a room. Only its creator may close it.
func (s *RoomService) CloseRoom(ctx context.Context, creatorID, code string) error {
	room, err := s.rooms.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	if room.CreatorID != creatorID {
		return domain.ErrNotCreator
	}
	return s.rooms.DeleteRoom(ctx, code)
}

func (s *RoomService) newCode() string {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	code := make([]byte, roomCodeLength)
	for i := range code {
		code[i] = roomCodeAlphabet[s.rnd.Intn(len(roomCodeAlphabet))]
	}
	return string(code)
}
