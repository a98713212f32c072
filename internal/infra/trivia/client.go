package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"trivia-quiz/internal/domain"
)

// DefaultBaseURL points at The Trivia API (v1).
const DefaultBaseURL = "https://the-trivia-api.com/api"

// Client reads categories and questions from The Trivia API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client; a nil httpClient gets a 10s timeout default.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type apiQuestion struct {
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers"`
}

// Categories returns the category names, sorted.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var raw map[string]json.RawMessage
	if err := c.get(ctx, "/categories", nil, &raw); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Questions fetches up to query.Limit questions.
func (c *Client) Questions(ctx context.Context, query domain.QuestionQuery) ([]domain.Question, error) {
	params := url.Values{}
	params.Set("categories", query.Category)
	params.Set("limit", strconv.Itoa(query.Limit))
	params.Set("difficulty", query.Difficulty)

	var raw []apiQuestion
	if err := c.get(ctx, "/questions", params, &raw); err != nil {
		return nil, err
	}
	questions := make([]domain.Question, 0, len(raw))
	for _, q := range raw {
		questions = append(questions, domain.Question{
			Question:         q.Question,
			CorrectAnswer:    q.CorrectAnswer,
			IncorrectAnswers: q.IncorrectAnswers,
		})
	}
	return questions, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
