package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trivia-quiz/internal/domain"

	"github.com/google/uuid"
)

// QuizRepository abstracts the document store quizzes are persisted in (memory, Mongo, Postgres).
// FindByID must return domain.ErrQuizNotFound when the id is unknown.
type QuizRepository interface {
	Insert(ctx context.Context, quiz domain.Quiz) error
	FindByID(ctx context.Context, quizID string) (domain.Quiz, error)
	FindAll(ctx context.Context) ([]domain.Quiz, error)
}

// IDGenerator mints quiz identifiers.
type IDGenerator interface {
	NewID() string
}

// EventPublisher receives quiz lifecycle events.
type EventPublisher interface {
	PublishQuizCreated(ctx context.Context, event domain.QuizCreated) error
}

// UUIDGenerator issues random (v4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// QuizStore validates and persists write-once quizzes.
type QuizStore struct {
	repo   QuizRepository
	ids    IDGenerator
	events EventPublisher
	now    func() time.Time
}

// NewQuizStore builds a store; events may be nil.
func NewQuizStore(repo QuizRepository, ids IDGenerator, events EventPublisher) *QuizStore {
	return NewQuizStoreWithClock(repo, ids, events, time.Now)
}

// NewQuizStoreWithClock is used by tests for deterministic creation times.
func NewQuizStoreWithClock(repo QuizRepository, ids IDGenerator, events EventPublisher, now func() time.Time) *QuizStore {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &QuizStore{repo: repo, ids: ids, events: events, now: now}
}

// Create persists questions under a freshly minted id and returns it.
func (s *QuizStore) Create(ctx context.Context, questions []domain.Question) (string, error) {
	if len(questions) == 0 {
		return "", fmt.Errorf("%w: questions are required and must be a non-empty array", domain.ErrValidation)
	}

	quiz := domain.Quiz{
		ID:        s.ids.NewID(),
		Questions: questions,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, quiz); err != nil {
		return "", fmt.Errorf("%w: save quiz: %w", domain.ErrUpstream, err)
	}
	slog.Info("quiz created", "quizId", quiz.ID, "questions", len(questions))

	if s.events != nil {
		event := domain.QuizCreated{QuizID: quiz.ID, QuestionCount: len(questions), CreatedAt: quiz.CreatedAt}
		if err := s.events.PublishQuizCreated(ctx, event); err != nil {
			slog.Warn("publish quiz.created failed", "quizId", quiz.ID, "err", err)
		}
	}
	return quiz.ID, nil
}

// Get returns the quiz stored under quizID.
func (s *QuizStore) Get(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quizID == "" {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	quiz, err := s.repo.FindByID(ctx, quizID)
	if errors.Is(err, domain.ErrQuizNotFound) {
		return domain.Quiz{}, err
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: load quiz: %w", domain.ErrUpstream, err)
	}
	return quiz, nil
}

// List returns every stored quiz.
func (s *QuizStore) List(ctx context.Context) ([]domain.Quiz, error) {
	quizzes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list quizzes: %w", domain.ErrUpstream, err)
	}
	if quizzes == nil {
		quizzes = []domain.Quiz{}
	}
	return quizzes, nil
}
