package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// NewRouter wires the REST API, the play websocket and health checks.
func NewRouter(quizzes *QuizHandler, play *PlayHandler, allowedOrigin string, logger *slog.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(requestLogger(logger))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ws/play", play.ServePlay)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/categories", quizzes.Categories).Methods(http.MethodGet)
	api.HandleFunc("/quizzes", quizzes.List).Methods(http.MethodGet)
	api.HandleFunc("/quizzes/create", quizzes.Create).Methods(http.MethodPost)
	api.HandleFunc("/quizzes/generate", quizzes.Generate).Methods(http.MethodPost)
	api.HandleFunc("/quizzes/candidates", quizzes.Candidates).Methods(http.MethodPost)
	api.HandleFunc("/quizzes/curate", quizzes.Curate).Methods(http.MethodPost)
	api.HandleFunc("/quizzes/{quizId}", quizzes.Get).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	})

	if allowedOrigin == "" {
		return router
	}
	return handlers.CORS(
		handlers.AllowedOrigins([]string{allowedOrigin}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.OptionStatusCode(http.StatusOK),
	)(router)
}

func requestLogger(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr, "took", time.Since(start))
		})
	}
}
