package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizec-service/internal/app"
	"quizec-service/internal/domain"
)

// CachedQuizRepository wraps a quiz repository with a TTL cache on reads to
// avoid repeated backing-store hits during attempts. Writes pass through
// and invalidate the cached entry.
type CachedQuizRepository struct {
	inner app.QuizRepository
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	rndMu sync.Mutex // rand.Rand is not safe for concurrent use
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewCachedQuizRepository(inner app.QuizRepository, ttl time.Duration) *CachedQuizRepository {
	return &CachedQuizRepository{
		inner: inner,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedQuiz),
	}
}

func (r *CachedQuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.quiz, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.quiz, nil
		}
		r.mu.RUnlock()

		quiz, err := r.inner.GetQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		r.mu.Lock()
		r.cache[quizID] = cachedQuiz{
			quiz:      quiz,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
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
	r.invalidate(quiz.ID)
	return nil
}

func (r *CachedQuizRepository) DeleteQuiz(ctx context.Context, quizID string) error {
	if err := r.inner.DeleteQuiz(ctx, quizID); err != nil {
		return err
	}
	r.invalidate(quizID)
	return nil
}

func (r *CachedQuizRepository) ListQuizzesByCreator(ctx context.Context, creatorID string) ([]domain.Quiz, error) {
	return r.inner.ListQuizzesByCreator(ctx, creatorID)
}

func (r *CachedQuizRepository) AddParticipant(ctx context.Context, quizID, userID string) error {
	if err := r.inner.AddParticipant(ctx, quizID, userID); err != nil {
		return err
	}
	r.invalidate(quizID)
	return nil
}

func (r *CachedQuizRepository) SetPlaying(ctx context.Context, quizID, userID string, playing bool) error {
	if err := r.inner.SetPlaying(ctx, quizID, userID, playing); err != nil {
		return err
	}
	r.invalidate(quizID)
	return nil
}

func (r *CachedQuizRepository) UpdateStatus(ctx context.Context, quizID string, status domain.QuizStatus) error {
	if err := r.inner.UpdateStatus(ctx, quizID, status); err != nil {
		return err
	}
	r.invalidate(quizID)
	return nil
}

func (r *CachedQuizRepository) invalidate(quizID string) {
	r.mu.Lock()
	delete(r.cache, quizID)
	r.mu.Unlock()
}

func (r *CachedQuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
