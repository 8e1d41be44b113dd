package app

import (
	"context"
	"fmt"

	"quiz-portal/internal/domain"
)

// UserService is the admin-facing account management surface.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	return s.users.GetUserByID(ctx, id)
}

// UpdateRole changes a user's role. Already-active connections keep the
// role they authenticated with until they reconnect.
func (s *UserService) UpdateRole(ctx context.Context, id string, role domain.Role) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, fmt.Errorf("role %q: %w", role, domain.ErrForbidden)
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	user.Role = role
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.DeleteUser(ctx, id)
}
