package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/infra/memory"
)

func TestCreateThenGetQuiz(t *testing.T) {
	server, _ := newTestServer(t, &stubSource{})

	resp := postJSON(t, server.URL+"/api/quizzes/create", `{"questions":[{"question":"2+2?","correctAnswer":"4","incorrectAnswers":["3","5"]}]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		QuizID string `json:"quizId"`
	}
	decode(t, resp, &created)
	if created.QuizID == "" {
		t.Fatalf("expected quiz id")
	}

	resp, err := http.Get(server.URL + "/api/quizzes/" + created.QuizID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var quiz domain.Quiz
	decode(t, resp, &quiz)
	if quiz.ID != created.QuizID || len(quiz.Questions) != 1 || quiz.Questions[0].CorrectAnswer != "4" {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
	if quiz.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be set")
	}
}

func TestCreateRejectsBadBodies(t *testing.T) {
	server, repo := newTestServer(t, &stubSource{})

	for _, body := range []string{`{}`, `{"questions":[]}`, `{"questions":"nope"}`, `not json`} {
		resp := postJSON(t, server.URL+"/api/quizzes/create", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, resp.StatusCode)
		}
		var errBody errorResponse
		decode(t, resp, &errBody)
		if errBody.Error == "" {
			t.Fatalf("%s: expected error message", body)
		}
	}
	if repo.Len() != 0 {
		t.Fatalf("expected no quizzes stored")
	}
}

func TestGetUnknownQuizIs404(t *testing.T) {
	server, _ := newTestServer(t, &stubSource{})

	resp, err := http.Get(server.URL + "/api/quizzes/does-not-exist")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListQuizzes(t *testing.T) {
	server, _ := newTestServer(t, &stubSource{})
	postJSON(t, server.URL+"/api/quizzes/create", `{"questions":[{"question":"a","correctAnswer":"b","incorrectAnswers":["c"]}]}`)
	postJSON(t, server.URL+"/api/quizzes/create", `{"questions":[{"question":"d","correctAnswer":"e","incorrectAnswers":["f"]}]}`)

	resp, err := http.Get(server.URL + "/api/quizzes")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var quizzes []domain.Quiz
	decode(t, resp, &quizzes)
	if len(quizzes) != 2 {
		t.Fatalf("expected 2 quizzes, got %d", len(quizzes))
	}
}

func TestGenerateEndpoint(t *testing.T) {
	server, repo := newTestServer(t, &stubSource{})

	resp := postJSON(t, server.URL+"/api/quizzes/generate", `{"difficulty":"medium","category":"","numberOfQuestions":3}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var body createResponse
	decode(t, resp, &body)
	if body.QuizID == "" || len(body.Questions) != 3 || repo.Len() != 1 {
		t.Fatalf("unexpected generate response %+v", body)
	}

	resp = postJSON(t, server.URL+"/api/quizzes/generate", `{"numberOfQuestions":51}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for 51 questions, got %d", resp.StatusCode)
	}
}

func TestGenerateUpstreamFailureIs500(t *testing.T) {
	server, _ := newTestServer(t, &stubSource{err: errors.New("unreachable")})

	resp := postJSON(t, server.URL+"/api/quizzes/generate", `{"numberOfQuestions":3}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	var errBody errorResponse
	decode(t, resp, &errBody)
	if strings.Contains(errBody.Error, "unreachable") {
		t.Fatalf("internal error leaked to client: %q", errBody.Error)
	}
}

func TestCandidatesAndCurate(t *testing.T) {
	server, repo := newTestServer(t, &stubSource{})

	resp := postJSON(t, server.URL+"/api/quizzes/candidates", `{"difficulty":"hard","numberOfQuestions":2}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var pool candidatesResponse
	decode(t, resp, &pool)
	if pool.NumberOfQuestions != 2 || len(pool.Questions) != 6 {
		t.Fatalf("expected pool of 6 for 2, got %+v", pool)
	}

	one, _ := json.Marshal(curateRequest{NumberOfQuestions: 2, Questions: pool.Questions[:1]})
	resp = postJSON(t, server.URL+"/api/quizzes/curate", string(one))
	if resp.StatusCode != http.StatusBadRequest || repo.Len() != 0 {
		t.Fatalf("expected 400 and no write on count mismatch, got %d", resp.StatusCode)
	}

	two, _ := json.Marshal(curateRequest{NumberOfQuestions: 2, Questions: pool.Questions[2:4]})
	resp = postJSON(t, server.URL+"/api/quizzes/curate", string(two))
	if resp.StatusCode != http.StatusCreated || repo.Len() != 1 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	server, _ := newTestServer(t, &stubSource{categories: []string{"Music", "Film & TV"}})

	resp, err := http.Get(server.URL + "/api/categories")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var categories []string
	decode(t, resp, &categories)
	if len(categories) != 2 || categories[0] != "Film & TV" {
		t.Fatalf("unexpected categories %v", categories)
	}
}

func TestHealthzAndUnknownRoute(t *testing.T) {
	server, _ := newTestServer(t, &stubSource{})

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected healthz %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(server.URL + "/nothing-here")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var apiErr errorResponse
	decode(t, resp, &apiErr)
	if resp.StatusCode != http.StatusNotFound || apiErr.Error != "Not found" {
		t.Fatalf("unexpected 404 response %d %+v", resp.StatusCode, apiErr)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	server, _ := newTestServer(t, &stubSource{})

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/quizzes", nil)
	req.Header.Set("Origin", testOrigin)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != testOrigin {
		t.Fatalf("expected allow-origin %s, got %q", testOrigin, got)
	}
}

const testOrigin = "http://localhost:5173"

func newTestServer(t *testing.T, source app.QuestionSource) (*httptest.Server, *memory.QuizRepository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewQuizRepository()
	store := app.NewQuizStore(repo, nil, nil)
	creator := app.NewCreationService(source, store)

	router := NewRouter(NewQuizHandler(store, creator, logger), NewPlayHandler(store, testOrigin, logger), testOrigin, logger)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, repo
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

type stubSource struct {
	categories []string
	err        error
}

func (s *stubSource) Categories(context.Context) ([]string, error) {
	return append([]string(nil), s.categories...), s.err
}

func (s *stubSource) Questions(_ context.Context, query domain.QuestionQuery) ([]domain.Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	questions := make([]domain.Question, query.Limit)
	for i := range questions {
		questions[i] = domain.Question{
			Question:         fmt.Sprintf("question %d", i+1),
			CorrectAnswer:    "yes",
			IncorrectAnswers: []string{"no", "maybe"},
		}
	}
	return questions, nil
}
