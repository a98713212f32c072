package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"trivia-quiz/internal/domain"
)

func TestQuizRepositoryInsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()

	if err := repo.Insert(ctx, sampleQuiz("quiz-1", time.Unix(20, 0))); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(ctx, sampleQuiz("quiz-0", time.Unix(10, 0))); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.FindByID(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != "quiz-1" || len(got.Questions) != 1 {
		t.Fatalf("unexpected quiz %+v", got)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 2 || all[0].ID != "quiz-0" || all[1].ID != "quiz-1" {
		t.Fatalf("expected quizzes oldest first, got %+v", all)
	}
}

func TestQuizRepositoryRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizRepository()

	if err := repo.Insert(ctx, sampleQuiz("quiz-1", time.Now())); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(ctx, sampleQuiz("quiz-1", time.Now())); err == nil {
		t.Fatalf("expected duplicate insert to fail")
	}
	if repo.Len() != 1 {
		t.Fatalf("expected 1 quiz, got %d", repo.Len())
	}
}

func TestQuizRepositoryNotFound(t *testing.T) {
	_, err := NewQuizRepository().FindByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func sampleQuiz(id string, createdAt time.Time) domain.Quiz {
	return domain.Quiz{
		ID: id,
		Questions: []domain.Question{
			{Question: "What is 2 + 2?", CorrectAnswer: "4", IncorrectAnswers: []string{"3", "5"}},
		},
		CreatedAt: createdAt,
	}
}
