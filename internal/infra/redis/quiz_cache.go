package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizec-service/internal/app"
	"quizec-service/internal/domain"
)

// CachedQuizRepository caches quiz documents in Redis as JSON values with a
// TTL and falls back to the wrapped repository on cache miss. Writes pass
// through and drop the cached document.
// Keys: quiz:{quizID}:doc
type CachedQuizRepository struct {
	client *redis.Client
	inner  app.QuizRepository
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex // rand.Rand is not safe for concurrent use
	rnd   *rand.Rand
}

func NewCachedQuizRepository(client *redis.Client, inner app.QuizRepository, ttl time.Duration) *CachedQuizRepository {
	return &CachedQuizRepository{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CachedQuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	key := r.docKey(quizID)

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var quiz domain.Quiz
		if jerr := json.Unmarshal(raw, &quiz); jerr == nil {
			return quiz, nil
		}
		// Unreadable cache entries are dropped and reloaded.
		_ = r.client.Del(ctx, key).Err()
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
			var quiz domain.Quiz
			if jerr := json.Unmarshal(raw, &quiz); jerr == nil {
				return quiz, nil
			}
		}

		quiz, err := r.inner.GetQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		if raw, jerr := json.Marshal(quiz); jerr == nil {
			_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *CachedQuizRepository) SaveQuiz(ctx context.Context, quiz domain.Quiz) error {
	if err := r.inner.SaveQuiz(ctx, quiz); err != nil {
		return err
	}
	return r.invalidate(ctx, quiz.ID)
}

func (r *CachedQuizRepository) DeleteQuiz(ctx context.Context, quizID string) error {
	if err := r.inner.DeleteQuiz(ctx, quizID); err != nil {
		return err
	}
	return r.invalidate(ctx, quizID)
}

func (r *CachedQuizRepository) ListQuizzesByCreator(ctx context.Context, creatorID string) ([]domain.Quiz, error) {
	return r.inner.ListQuizzesByCreator(ctx, creatorID)
}

func (r *CachedQuizRepository) AddParticipant(ctx context.Context, quizID, userID string) error {
	if err := r.inner.AddParticipant(ctx, quizID, userID); err != nil {
		return err
	}
	return r.invalidate(ctx, quizID)
}

func (r *CachedQuizRepository) SetPlaying(ctx context.Context, quizID, userID string, playing bool) error {
	if err := r.inner.SetPlaying(ctx, quizID, userID, playing); err != nil {
		return err
	}
	return r.invalidate(ctx, quizID)
}

func (r *CachedQuizRepository) UpdateStatus(ctx context.Context, quizID string, status domain.QuizStatus) error {
	if err := r.inner.UpdateStatus(ctx, quizID, status); err != nil {
		return err
	}
	return r.invalidate(ctx, quizID)
}

func (r *CachedQuizRepository) invalidate(ctx context.Context, quizID string) error {
	return r.client.Del(ctx, r.docKey(quizID)).Err()
}

func (r *CachedQuizRepository) docKey(quizID string) string {
	return "quiz:" + quizID + ":doc"
}

func (r *CachedQuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
