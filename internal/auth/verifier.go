package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"quiz-portal/internal/domain"
)

// UserLookup is the slice of the user store the verifier needs.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
}

// Verifier resolves a bearer credential to an Identity. Display name and
// role come from the current user record, not from token claims, so role
// changes after token issuance take effect at the next connection.
type Verifier struct {
	tokens *TokenManager
	users  UserLookup
}

func NewVerifier(tokens *TokenManager, users UserLookup) *Verifier {
	return &Verifier{tokens: tokens, users: users}
}

// Verify checks the credential and looks up the backing user record.
// It has no side effects; callers decide what happens next.
func (v *Verifier) Verify(ctx context.Context, credential string) (domain.Identity, error) {
	if credential == "" {
		return domain.Identity{}, domain.ErrNoCredential
	}
	claims, err := v.tokens.ParseAccess(credential)
	if err != nil {
		return domain.Identity{}, err
	}
	user, err := v.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Identity{}, domain.ErrUnknownIdentity
		}
		return domain.Identity{}, fmt.Errorf("lookup identity: %w", err)
	}
	return user.Identity(), nil
}

// CredentialFromRequest extracts a bearer token from the accepted transport
// locations in fixed priority order: the explicit `auth` handshake field,
// the Authorization header, the `token` query parameter, and finally the
// X-Access-Token header. The first non-empty value wins.
func CredentialFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("auth"); token != "" {
		return token
	}
	if header := r.Header.Get("Authorization"); header != "" {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" && token != header {
			return token
		}
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	return r.Header.Get("X-Access-Token")
}
