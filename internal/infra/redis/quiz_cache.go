package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CachedRepository caches quiz documents in Redis and falls back to the wrapped
// repository on a miss. Each quiz is stored as JSON under quiz:{quizID}.
// Cache errors are logged and treated as misses.
type CachedRepository struct {
	client *redis.Client
	next   app.QuizRepository
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewCachedRepository(client *redis.Client, next app.QuizRepository, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		client: client,
		next:   next,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CachedRepository) Insert(ctx context.Context, quiz domain.Quiz) error {
	if err := r.next.Insert(ctx, quiz); err != nil {
		return err
	}
	r.store(ctx, quiz)
	return nil
}

func (r *CachedRepository) FindByID(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.cached(ctx, quizID); ok {
		return quiz, nil
	}

	// the shared load outlives any single caller's cancellation
	loadCtx := context.WithoutCancel(ctx)
	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.cached(loadCtx, quizID); ok {
			return quiz, nil
		}
		quiz, err := r.next.FindByID(loadCtx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		r.store(loadCtx, quiz)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *CachedRepository) FindAll(ctx context.Context) ([]domain.Quiz, error) {
	return r.next.FindAll(ctx)
}

func (r *CachedRepository) cached(ctx context.Context, quizID string) (domain.Quiz, bool) {
	raw, err := r.client.Get(ctx, quizKey(quizID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Quiz{}, false
	}
	if err != nil {
		slog.Warn("quiz cache read failed", "quizId", quizID, "err", err)
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		slog.Warn("quiz cache entry corrupt", "quizId", quizID, "err", err)
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (r *CachedRepository) store(ctx context.Context, quiz domain.Quiz) {
	data, err := json.Marshal(quiz)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, quizKey(quiz.ID), data, r.ttlWithJitter()).Err(); err != nil {
		slog.Warn("quiz cache write failed", "quizId", quiz.ID, "err", err)
	}
}

func quizKey(quizID string) string {
	return "quiz:" + quizID
}

func (r *CachedRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
