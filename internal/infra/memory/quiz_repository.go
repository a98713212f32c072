package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"trivia-quiz/internal/domain"
)

// QuizRepository is an in-process document store for quizzes (useful for tests/demos).
type QuizRepository struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
}

func NewQuizRepository() *QuizRepository {
	return &QuizRepository{quizzes: make(map[string]domain.Quiz)}
}

func (r *QuizRepository) Insert(_ context.Context, quiz domain.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quizzes[quiz.ID]; ok {
		return fmt.Errorf("quiz %s already exists", quiz.ID)
	}
	r.quizzes[quiz.ID] = quiz
	return nil
}

func (r *QuizRepository) FindByID(_ context.Context, quizID string) (domain.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if quiz, ok := r.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (r *QuizRepository) FindAll(_ context.Context) ([]domain.Quiz, error) {
	r.mu.RLock()
	quizzes := make([]domain.Quiz, 0, len(r.quizzes))
	for _, quiz := range r.quizzes {
		quizzes = append(quizzes, quiz)
	}
	r.mu.RUnlock()

	sort.Slice(quizzes, func(i, j int) bool {
		if !quizzes[i].CreatedAt.Equal(quizzes[j].CreatedAt) {
			return quizzes[i].CreatedAt.Before(quizzes[j].CreatedAt)
		}
		return quizzes[i].ID < quizzes[j].ID
	})
	return quizzes, nil
}

// Len reports how many quizzes are stored.
func (r *QuizRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.quizzes)
}
