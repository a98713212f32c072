package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CachedRepository caches quizzes with TTL in front of another repository.
// Quizzes are never updated, so a cached copy is only ever stale by absence.
type CachedRepository struct {
	next  app.QuizRepository
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand
	rndMu sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewCachedRepository(next app.QuizRepository, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		next:  next,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedQuiz),
	}
}

func (r *CachedRepository) Insert(ctx context.Context, quiz domain.Quiz) error {
	if err := r.next.Insert(ctx, quiz); err != nil {
		return err
	}
	r.put(quiz, r.clock())
	return nil
}

func (r *CachedRepository) FindByID(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.lookup(quizID, r.clock()); ok {
		return quiz, nil
	}

	// the shared load outlives any single caller's cancellation
	loadCtx := context.WithoutCancel(ctx)
	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		now := r.clock()
		if quiz, ok := r.lookup(quizID, now); ok {
			return quiz, nil
		}

		quiz, err := r.next.FindByID(loadCtx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		r.put(quiz, now)
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

// lookup returns a live entry and evicts an expired one.
func (r *CachedRepository) lookup(quizID string, now time.Time) (domain.Quiz, bool) {
	r.mu.RLock()
	entry, ok := r.cache[quizID]
	r.mu.RUnlock()
	if !ok {
		return domain.Quiz{}, false
	}
	if entry.expiresAt.After(now) {
		return entry.quiz, true
	}

	r.mu.Lock()
	if current, ok := r.cache[quizID]; ok && !current.expiresAt.After(now) {
		delete(r.cache, quizID)
	}
	r.mu.Unlock()
	return domain.Quiz{}, false
}

func (r *CachedRepository) put(quiz domain.Quiz, now time.Time) {
	ttl := r.ttlWithJitter()
	if ttl <= 0 {
		return
	}
	r.mu.Lock()
	r.cache[quiz.ID] = cachedQuiz{quiz: quiz, expiresAt: now.Add(ttl)}
	r.mu.Unlock()
}

func (r *CachedRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
