package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-cms/meridian-cms/internal/shared"
	"github.com/meridian-cms/meridian-cms/internal/users"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials. Accounts still
// pending activation cannot log in; the failure is indistinguishable
// from a wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (users.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return users.User{}, shared.ErrInvalidCredentials
	}
	if user.Pending() || user.PasswordHash == "" {
		return users.User{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return users.User{}, shared.ErrInvalidCredentials
	}
	return user, nil
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
