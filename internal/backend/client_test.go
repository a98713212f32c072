package backend

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
)

func TestGetMapsStatusCodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/quizzes/quiz-1":
			json.NewEncoder(w).Encode(domain.Quiz{ID: "quiz-1", Questions: []domain.Question{
				{Question: "2+2?", CorrectAnswer: "4", IncorrectAnswers: []string{"3"}},
			}})
		case "/api/quizzes/broken":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"Failed to retrieve quiz."}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Quiz not found"}`))
		}
	}))
	defer server.Close()
	client := NewClient(server.URL, server.Client())

	quiz, err := client.Get(context.Background(), "quiz-1")
	if err != nil || quiz.ID != "quiz-1" || len(quiz.Questions) != 1 {
		t.Fatalf("unexpected quiz %+v (%v)", quiz, err)
	}
	if _, err := client.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := client.Get(context.Background(), "broken"); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream, got %v", err)
	}
}

func TestClientDrivesPlaythrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.Quiz{ID: "quiz-1", Questions: []domain.Question{
			{Question: "2+2?", CorrectAnswer: "4", IncorrectAnswers: []string{"3", "5"}},
		}})
	}))
	defer server.Close()

	state, err := app.LoadByID(context.Background(), NewClient(server.URL, server.Client()), "quiz-1", rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if state.Phase != app.PhaseReady || len(state.Answers[0]) != 3 {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestCandidatesAndCurate(t *testing.T) {
	var curated struct {
		NumberOfQuestions int               `json:"numberOfQuestions"`
		Questions         []domain.Question `json:"questions"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/quizzes/candidates":
			var req app.QuizRequest
			json.NewDecoder(r.Body).Decode(&req)
			pool := make([]domain.Question, req.NumberOfQuestions*3)
			for i := range pool {
				pool[i] = domain.Question{Question: string(rune('a' + i)), CorrectAnswer: "x"}
			}
			json.NewEncoder(w).Encode(map[string]any{"numberOfQuestions": req.NumberOfQuestions, "questions": pool})
		case "/api/quizzes/curate":
			json.NewDecoder(r.Body).Decode(&curated)
			if len(curated.Questions) != curated.NumberOfQuestions {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"please select exactly 1 questions"}`))
				return
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"quizId":"quiz-9"}`))
		}
	}))
	defer server.Close()
	client := NewClient(server.URL, server.Client())

	selection, err := client.Candidates(context.Background(), app.QuizRequest{NumberOfQuestions: 1})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(selection.Pool()) != 3 || selection.Target() != 1 {
		t.Fatalf("unexpected selection target=%d pool=%d", selection.Target(), len(selection.Pool()))
	}

	if _, err := client.Curate(context.Background(), 1, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := selection.Toggle(2); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	quizID, err := client.Curate(context.Background(), selection.Target(), selection.Selected())
	if err != nil || quizID != "quiz-9" {
		t.Fatalf("unexpected curate result %q (%v)", quizID, err)
	}
	if curated.Questions[0].Question != "c" {
		t.Fatalf("expected third candidate submitted, got %+v", curated.Questions)
	}
}

func TestNotFoundOutsideGetIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()
	client := NewClient(server.URL, server.Client())

	_, _, err := client.Generate(context.Background(), app.QuizRequest{NumberOfQuestions: 1})
	if !errors.Is(err, domain.ErrUpstream) || errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected upstream error for generate 404, got %v", err)
	}
	if _, err := client.Curate(context.Background(), 1, nil); !errors.Is(err, domain.ErrUpstream) || errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected upstream error for curate 404, got %v", err)
	}
	if _, err := client.Get(context.Background(), "quiz-1"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found for get 404, got %v", err)
	}
}
