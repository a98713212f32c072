package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
	"github.com/gorilla/mux"
)

// QuizHandler serves the quiz REST API.
type QuizHandler struct {
	store   *app.QuizStore
	creator *app.CreationService
	logger  *slog.Logger
}

func NewQuizHandler(store *app.QuizStore, creator *app.CreationService, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{store: store, creator: creator, logger: logger}
}

type createRequest struct {
	Questions []domain.Question `json:"questions"`
}

type curateRequest struct {
	NumberOfQuestions int               `json:"numberOfQuestions"`
	Questions         []domain.Question `json:"questions"`
}

type createResponse struct {
	QuizID    string            `json:"quizId"`
	Questions []domain.Question `json:"questions,omitempty"`
}

type candidatesResponse struct {
	NumberOfQuestions int               `json:"numberOfQuestions"`
	Questions         []domain.Question `json:"questions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Create handles POST /api/quizzes/create.
func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Questions are required and must be an array."})
		return
	}
	quizID, err := h.store.Create(r.Context(), req.Questions)
	if errors.Is(err, domain.ErrValidation) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Questions are required and must be an array."})
		return
	}
	if err != nil {
		h.fail(w, err, "Failed to create quiz.")
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{QuizID: quizID})
}

// Get handles GET /api/quizzes/{quizId}.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.store.Get(r.Context(), mux.Vars(r)["quizId"])
	if err != nil {
		h.fail(w, err, "Failed to retrieve quiz.")
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

// List handles GET /api/quizzes.
func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to retrieve quizzes.")
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

// Categories handles GET /api/categories.
func (h *QuizHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.creator.Categories(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to load categories.")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Generate handles POST /api/quizzes/generate.
func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req app.QuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	quizID, questions, err := h.creator.Generate(r.Context(), req)
	if err != nil {
		h.fail(w, err, "Failed to generate quiz.")
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{QuizID: quizID, Questions: questions})
}

// Candidates handles POST /api/quizzes/candidates.
func (h *QuizHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	var req app.QuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	selection, err := h.creator.Candidates(r.Context(), req)
	if err != nil {
		h.fail(w, err, "Failed to fetch questions.")
		return
	}
	writeJSON(w, http.StatusOK, candidatesResponse{NumberOfQuestions: selection.Target(), Questions: selection.Pool()})
}

// Curate handles POST /api/quizzes/curate.
func (h *QuizHandler) Curate(w http.ResponseWriter, r *http.Request) {
	var req curateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	quizID, err := h.creator.Curate(r.Context(), req.NumberOfQuestions, req.Questions)
	if err != nil {
		h.fail(w, err, "Failed to create quiz.")
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{QuizID: quizID})
}

// fail maps domain errors onto status codes; anything unexpected becomes a 500 with fallback.
func (h *QuizHandler) fail(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrQuizNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Quiz not found"})
	default:
		h.logger.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fallback})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
