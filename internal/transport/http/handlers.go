package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"quiz-portal/internal/app"
	"quiz-portal/internal/domain"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin teacher student"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type authPayload struct {
	User   domain.User   `json:"user"`
	Tokens app.TokenPair `json:"tokens"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respond(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	user, tokens, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "registered", authPayload{User: user, Tokens: tokens})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respond(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	user, tokens, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "logged in", authPayload{User: user, Tokens: tokens})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respond(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	access, err := s.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "access token refreshed", map[string]string{"accessToken": access})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())
	var req logoutRequest
	_ = decodeJSON(r, &req)
	if err := s.auth.Logout(r.Context(), identity.ID, req.RefreshToken); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "logged out", nil)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "users", users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "user", user)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())
	user, err := s.users.Get(r.Context(), identity.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "profile", user)
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin teacher student"`
}

func (s *Server) handleUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		respond(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	user, err := s.users.UpdateRole(r.Context(), mux.Vars(r)["id"], domain.Role(req.Role))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "role updated", user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "user deleted", nil)
}

type createQuizRequest struct {
	Title    string `json:"title" validate:"required,min=3"`
	Category string `json:"category" validate:"required"`
	Duration int    `json:"duration" validate:"required,min=1"`
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())
	var req createQuizRequest
	if err := decodeJSON(r, &req); err != nil {
		respond(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	quiz, err := s.quizzes.CreateQuiz(r.Context(), identity, app.CreateQuizInput{
		Title:       req.Title,
		Category:    req.Category,
		DurationMin: req.Duration,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "quiz created", quiz)
}

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := s.quizzes.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "quizzes", quizzes)
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := s.quizzes.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "quiz", quiz)
}

type updateQuizRequest struct {
	Title    string `json:"title" validate:"omitempty,min=3"`
	Category string `json:"category"`
	Duration int    `json:"duration" validate:"omitempty,min=1"`
}

func (s *Server) handleUpdateQuiz(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())
	var req updateQuizRequest
	if err := decodeJSON(r, &req); err != nil {
		respond(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	quiz, err := s.quizzes.UpdateQuiz(r.Context(), identity, mux.Vars(r)["id"], app.UpdateQuizInput{
		Title:       req.Title,
		Category:    req.Category,
		DurationMin: req.Duration,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "quiz updated", quiz)
}

func (s *Server) handleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())
	if err := s.quizzes.Delete(r.Context(), identity, mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "quiz deleted", nil)
}

type createQuestionRequest struct {
	QuizID        string          `json:"quizId" validate:"required"`
	Type          string          `json:"type" validate:"required,oneof=multiple-choice true-false text"`
	Text          string          `json:"text" validate:"required"`
	Options       []domain.Option `json:"options" validate:"required_if=Type multiple-choice,dive"`
	CorrectAnswer any             `json:"correctAnswer" validate:"required"`
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())
	var req createQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		respond(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	question, err := s.quizzes.AddQuestion(r.Context(), identity, app.AddQuestionInput{
		QuizID:        req.QuizID,
		Type:          domain.QuestionType(req.Type),
		Text:          req.Text,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "question created", question)
}

type updateQuestionRequest struct {
	Text          string          `json:"text"`
	Options       []domain.Option `json:"options" validate:"omitempty,dive"`
	CorrectAnswer any             `json:"correctAnswer"`
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())
	var req updateQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		respond(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	question, err := s.quizzes.UpdateQuestion(r.Context(), identity, mux.Vars(r)["id"], app.UpdateQuestionInput{
		Text:          req.Text,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "question updated", question)
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())
	questions, err := s.quizzes.Questions(r.Context(), identity, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "questions", questions)
}

type submitResultRequest struct {
	QuizID  string                   `json:"quizId" validate:"required"`
	Answers []domain.SubmittedAnswer `json:"answers" validate:"required,min=0,dive"`
}

func (s *Server) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())
	var req submitResultRequest
	if err := decodeJSON(r, &req); err != nil {
		respond(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	result, err := s.results.Submit(r.Context(), identity, req.QuizID, req.Answers)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "result recorded", result)
}

func (s *Server) handleMyResults(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())
	results, err := s.results.MyResults(r.Context(), identity.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "results", results)
}

func (s *Server) handleTeacherResults(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())
	results, err := s.results.ResultsForTeacher(r.Context(), identity.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "quiz results", results)
}

func (s *Server) handleAllResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.results.AllResults(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "all results", results)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())
	result, err := s.results.Get(r.Context(), identity, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "result", result)
}
