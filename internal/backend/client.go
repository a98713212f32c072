// Package backend is an HTTP client for the quiz service's REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
)

var errStatusNotFound = errors.New("status 404")

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type apiError struct {
	Error string `json:"error"`
}

type createResponse struct {
	QuizID    string            `json:"quizId"`
	Questions []domain.Question `json:"questions"`
}

type candidatesResponse struct {
	NumberOfQuestions int               `json:"numberOfQuestions"`
	Questions         []domain.Question `json:"questions"`
}

// Get fetches a quiz by id.
func (c *Client) Get(ctx context.Context, quizID string) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := c.do(ctx, http.MethodGet, "/api/quizzes/"+url.PathEscape(quizID), nil, &quiz)
	if errors.Is(err, errStatusNotFound) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, err
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories)
	return categories, err
}

// Generate asks the service to build and store a quiz from the question source.
func (c *Client) Generate(ctx context.Context, req app.QuizRequest) (string, []domain.Question, error) {
	var resp createResponse
	if err := c.do(ctx, http.MethodPost, "/api/quizzes/generate", req, &resp); err != nil {
		return "", nil, err
	}
	return resp.QuizID, resp.Questions, nil
}

// Candidates fetches a pool to pick req.NumberOfQuestions from.
func (c *Client) Candidates(ctx context.Context, req app.QuizRequest) (*app.Selection, error) {
	var resp candidatesResponse
	if err := c.do(ctx, http.MethodPost, "/api/quizzes/candidates", req, &resp); err != nil {
		return nil, err
	}
	return app.NewSelection(resp.NumberOfQuestions, resp.Questions)
}

// Curate stores a manual selection of exactly n questions.
func (c *Client) Curate(ctx context.Context, n int, selected []domain.Question) (string, error) {
	var resp createResponse
	body := map[string]any{"numberOfQuestions": n, "questions": selected}
	if err := c.do(ctx, http.MethodPost, "/api/quizzes/curate", body, &resp); err != nil {
		return "", err
	}
	return resp.QuizID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrUpstream, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		switch resp.StatusCode {
		case http.StatusNotFound:
			// only Get treats a 404 as an unknown quiz; elsewhere it is a routing failure
			return fmt.Errorf("%w: %s %s: %w", domain.ErrUpstream, method, path, errStatusNotFound)
		case http.StatusBadRequest:
			return fmt.Errorf("%w: %s", domain.ErrValidation, apiErr.Error)
		default:
			return fmt.Errorf("%w: %s %s: status %d: %s", domain.ErrUpstream, method, path, resp.StatusCode, apiErr.Error)
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", domain.ErrUpstream, path, err)
	}
	return nil
}
