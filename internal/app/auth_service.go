package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-portal/internal/auth"
	"quiz-portal/internal/domain"
)

// TokenPair is the access/refresh pair handed out on register and login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService implements register, login, refresh rotation and logout.
type AuthService struct {
	users      UserStore
	tokens     *auth.TokenManager
	refresh    TokenStore
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAuthService(users UserStore, tokens *auth.TokenManager, refresh TokenStore, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		refresh:    refresh,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Register creates an account and signs in the new user.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (domain.User, TokenPair, error) {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, TokenPair{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, TokenPair{}, err
	}
	if _, err := s.users.GetUserByName(ctx, name); err == nil {
		return domain.User{}, TokenPair{}, domain.ErrNameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, TokenPair{}, err
	}

	if !role.Valid() {
		role = domain.RoleStudent
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// Login checks credentials and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, TokenPair{}, domain.ErrInvalidCredential
		}
		return domain.User{}, TokenPair{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return domain.User{}, TokenPair{}, domain.ErrInvalidCredential
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh exchanges a stored refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	known, err := s.refresh.HasRefreshToken(ctx, claims.Subject, refreshToken)
	if err != nil {
		return "", err
	}
	if !known {
		return "", domain.ErrInvalidCredential
	}
	user, err := s.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUnknownIdentity
		}
		return "", err
	}
	return s.tokens.SignAccess(user)
}

// Logout revokes one refresh token; access tokens simply expire.
func (s *AuthService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refresh.DeleteRefreshToken(ctx, userID, refreshToken)
}

func (s *AuthService) issuePair(ctx context.Context, user domain.User) (TokenPair, error) {
	access, err := s.tokens.SignAccess(user)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.SignRefresh(user)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.refresh.SaveRefreshToken(ctx, user.ID, refresh, s.refreshTTL); err != nil {
		return TokenPair{}, fmt.Errorf("save refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
