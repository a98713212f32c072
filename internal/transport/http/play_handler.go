package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
	"github.com/gorilla/websocket"
)

// PlayHandler runs one quiz playthrough per websocket connection.
type PlayHandler struct {
	quizzes  app.QuizGetter
	logger   *slog.Logger
	newRand  func() app.Rand
	upgrader websocket.Upgrader
}

func NewPlayHandler(quizzes app.QuizGetter, allowedOrigin string, logger *slog.Logger) *PlayHandler {
	return &PlayHandler{
		quizzes: quizzes,
		logger:  logger,
		newRand: func() app.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigin),
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Answer string `json:"answer"`
}

type questionPayload struct {
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
	Last     bool     `json:"last"`
}

type selectedPayload struct {
	Answer string `json:"answer"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServePlay upgrades the request and walks the player through the quiz:
// question -> select* -> next, until the summary is sent.
func (h *PlayHandler) ServePlay(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	name := r.URL.Query().Get("name")
	if quizID == "" || name == "" {
		http.Error(w, "missing quizId or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	logger := h.logger.With("quizId", quizID, "player", name)

	state, err := app.LoadByID(r.Context(), h.quizzes, quizID, h.newRand())
	if err != nil || state.Phase == app.PhaseFailed {
		logger.Info("playthrough not loaded", "err", err)
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: state.Failure}})
		return
	}
	if err := conn.WriteJSON(questionMessage(state)); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			logger.Debug("player left", "err", err)
			return
		}

		var reply any
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				reply = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid select payload"}}
				break
			}
			state, err = state.Select(payload.Answer)
			if err != nil {
				reply = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				break
			}
			reply = outboundMessage[selectedPayload]{Type: "selected", Payload: selectedPayload{Answer: state.Selected}}
		case "next":
			var summary *domain.Summary
			state, summary, err = state.Advance()
			if errors.Is(err, domain.ErrPrecondition) {
				reply = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "select an answer first"}}
				break
			}
			if summary != nil {
				logger.Info("playthrough completed", "score", summary.Score, "total", len(summary.Questions))
				_ = conn.WriteJSON(outboundMessage[domain.Summary]{Type: "summary", Payload: *summary})
				return
			}
			reply = questionMessage(state)
		default:
			reply = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}

		if err := conn.WriteJSON(reply); err != nil {
			logger.Warn("ws write error", "err", err)
			return
		}
	}
}

func questionMessage(state app.PlayState) outboundMessage[questionPayload] {
	question, answers, _ := state.Current()
	return outboundMessage[questionPayload]{Type: "question", Payload: questionPayload{
		Index:    state.CurrentIndex,
		Total:    state.Total(),
		Question: question.Question,
		Answers:  answers,
		Last:     state.IsLast(),
	}}
}

func originChecker(allowed string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return allowed == "" || allowed == "*" || origin == "" || origin == allowed
	}
}
