package app

import (
	"context"
	"fmt"
	"sort"

	"trivia-quiz/internal/domain"
)

const (
	// MaxQuestions bounds numberOfQuestions on both creation paths.
	MaxQuestions = 50
	// candidateFactor oversamples the pool offered for manual selection.
	candidateFactor = 3
)

var difficulties = map[string]bool{"": true, "easy": true, "medium": true, "hard": true}

// QuestionSource is the external trivia question bank.
type QuestionSource interface {
	Categories(ctx context.Context) ([]string, error)
	Questions(ctx context.Context, query domain.QuestionQuery) ([]domain.Question, error)
}

// QuizRequest describes the questions a new quiz should be built from.
type QuizRequest struct {
	Difficulty        string `json:"difficulty"`
	Category          string `json:"category"`
	NumberOfQuestions int    `json:"numberOfQuestions"`
}

func (r QuizRequest) validate() error {
	if err := validateCount(r.NumberOfQuestions); err != nil {
		return err
	}
	if !difficulties[r.Difficulty] {
		return fmt.Errorf("%w: unknown difficulty %q", domain.ErrValidation, r.Difficulty)
	}
	return nil
}

func validateCount(n int) error {
	if n < 1 || n > MaxQuestions {
		return fmt.Errorf("%w: numberOfQuestions must be between 1 and %d", domain.ErrValidation, MaxQuestions)
	}
	return nil
}

// CreationService implements the auto-generated and manually curated quiz paths.
type CreationService struct {
	source QuestionSource
	store  *QuizStore
}

func NewCreationService(source QuestionSource, store *QuizStore) *CreationService {
	return &CreationService{source: source, store: store}
}

// Categories lists the question source's categories by name.
func (s *CreationService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.source.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch categories: %w", domain.ErrUpstream, err)
	}
	sort.Strings(categories)
	return categories, nil
}

// Generate fetches exactly req.NumberOfQuestions questions and persists them as a new quiz.
func (s *CreationService) Generate(ctx context.Context, req QuizRequest) (string, []domain.Question, error) {
	if err := req.validate(); err != nil {
		return "", nil, err
	}
	questions, err := s.fetch(ctx, req, req.NumberOfQuestions)
	if err != nil {
		return "", nil, err
	}
	if len(questions) < req.NumberOfQuestions {
		return "", nil, fmt.Errorf("%w: question source returned %d of %d questions", domain.ErrUpstream, len(questions), req.NumberOfQuestions)
	}
	questions = questions[:req.NumberOfQuestions]

	quizID, err := s.store.Create(ctx, questions)
	if err != nil {
		return "", nil, err
	}
	return quizID, questions, nil
}

// Candidates fetches an oversampled pool for the caller to pick req.NumberOfQuestions from.
func (s *CreationService) Candidates(ctx context.Context, req QuizRequest) (*Selection, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	pool, err := s.fetch(ctx, req, req.NumberOfQuestions*candidateFactor)
	if err != nil {
		return nil, err
	}
	return NewSelection(req.NumberOfQuestions, pool)
}

// Curate persists a manual selection, which must contain exactly n questions.
func (s *CreationService) Curate(ctx context.Context, n int, selected []domain.Question) (string, error) {
	if err := validateCount(n); err != nil {
		return "", err
	}
	if len(selected) != n {
		return "", fmt.Errorf("%w: please select exactly %d questions", domain.ErrValidation, n)
	}
	return s.store.Create(ctx, selected)
}

func (s *CreationService) fetch(ctx context.Context, req QuizRequest, limit int) ([]domain.Question, error) {
	questions, err := s.source.Questions(ctx, domain.QuestionQuery{
		Category:   req.Category,
		Difficulty: req.Difficulty,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fetch questions: %w", domain.ErrUpstream, err)
	}
	return questions, nil
}
