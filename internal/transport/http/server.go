// Package http wires the portal use cases and the realtime hub onto REST
// and websocket endpoints.
package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"quiz-portal/internal/app"
	"quiz-portal/internal/auth"
	"quiz-portal/internal/realtime"
)

// Server holds every handler dependency; construct it once in the CLI.
type Server struct {
	auth     *app.AuthService
	users    *app.UserService
	quizzes  *app.QuizService
	results  *app.ResultService
	verifier *auth.Verifier
	hub      *realtime.Hub
	ws       *WSHandler
	validate *validator.Validate
}

func NewServer(
	authService *app.AuthService,
	users *app.UserService,
	quizzes *app.QuizService,
	results *app.ResultService,
	verifier *auth.Verifier,
	hub *realtime.Hub,
) *Server {
	return &Server{
		auth:     authService,
		users:    users,
		quizzes:  quizzes,
		results:  results,
		verifier: verifier,
		hub:      hub,
		ws:       NewWSHandler(hub),
		validate: validator.New(),
	}
}

// Routes builds the full route table.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/ws", s.ws.ServeWS).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.requireAuth(s.handleLogout)).Methods(http.MethodPost)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return s.requireAuth(s.requireRole(h, "admin"))
	}
	authoring := func(h http.HandlerFunc) http.HandlerFunc {
		return s.requireAuth(s.requireRole(h, "teacher", "admin"))
	}

	api.HandleFunc("/users", admin(s.handleListUsers)).Methods(http.MethodGet)
	api.HandleFunc("/users/profile", s.requireAuth(s.handleProfile)).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", admin(s.handleGetUser)).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", admin(s.handleUpdateUserRole)).Methods(http.MethodPatch)
	api.HandleFunc("/users/{id}", admin(s.handleDeleteUser)).Methods(http.MethodDelete)

	api.HandleFunc("/quizzes", authoring(s.handleCreateQuiz)).Methods(http.MethodPost)
	api.HandleFunc("/quizzes", s.requireAuth(s.handleListQuizzes)).Methods(http.MethodGet)
	api.HandleFunc("/quizzes/{id}", s.requireAuth(s.handleGetQuiz)).Methods(http.MethodGet)
	api.HandleFunc("/quizzes/{id}", authoring(s.handleUpdateQuiz)).Methods(http.MethodPut)
	api.HandleFunc("/quizzes/{id}", authoring(s.handleDeleteQuiz)).Methods(http.MethodDelete)
	api.HandleFunc("/quizzes/{id}/questions", s.requireAuth(s.handleListQuestions)).Methods(http.MethodGet)
	api.HandleFunc("/questions", authoring(s.handleCreateQuestion)).Methods(http.MethodPost)
	api.HandleFunc("/questions/{id}", authoring(s.handleUpdateQuestion)).Methods(http.MethodPut)

	api.HandleFunc("/results/submit", s.requireAuth(s.requireRole(s.handleSubmitResult, "student"))).Methods(http.MethodPost)
	api.HandleFunc("/results/me", s.requireAuth(s.handleMyResults)).Methods(http.MethodGet)
	api.HandleFunc("/results/mine", authoring(s.handleTeacherResults)).Methods(http.MethodGet)
	api.HandleFunc("/results", admin(s.handleAllResults)).Methods(http.MethodGet)
	api.HandleFunc("/results/{id}", s.requireAuth(s.handleGetResult)).Methods(http.MethodGet)

	return r
}
