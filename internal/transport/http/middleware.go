package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"quiz-portal/internal/auth"
	"quiz-portal/internal/domain"
)

type contextKey struct{}

var identityKey contextKey

// IdentityFromContext returns the verified identity injected by the auth
// middleware.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// apiResponse is the JSON envelope every endpoint replies with.
type apiResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{Status: status, Message: message, Data: data})
}

// respondError maps domain errors onto HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNoCredential),
		errors.Is(err, domain.ErrInvalidCredential),
		errors.Is(err, domain.ErrUnknownIdentity):
		respond(w, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, domain.ErrForbidden):
		respond(w, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrResultNotFound):
		respond(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrNameTaken):
		respond(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, domain.ErrUnknownQuestion),
		errors.Is(err, domain.ErrEmptyQuestionSet):
		respond(w, http.StatusBadRequest, err.Error(), nil)
	default:
		respond(w, http.StatusInternalServerError, "internal error", nil)
	}
}

// requireAuth verifies the bearer credential and injects the identity.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.verifier.Verify(r.Context(), auth.CredentialFromRequest(r))
		if err != nil {
			respondError(w, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	}
}

// requireRole gates a handler to the given roles; it assumes requireAuth
// already ran.
func (s *Server) requireRole(next http.HandlerFunc, roles ...domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			respondError(w, domain.ErrNoCredential)
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				next(w, r)
				return
			}
		}
		respondError(w, domain.ErrForbidden)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
