// Package adminauth authenticates the single site operator against a stored
// bcrypt password hash.
package adminauth

import (
	"context"
	"errors"
	"fmt"

	"fogseason/api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// UserStore defines the storage interface for operator accounts
type UserStore interface {
	GetAdminUser(ctx context.Context, username string) (store.AdminUser, error)
	CreateAdminUser(ctx context.Context, username, passwordHash string) error
	UpdateAdminPassword(ctx context.Context, username, passwordHash string) error
}

type Service struct {
	store UserStore
}

func NewService(store UserStore) *Service {
	return &Service{store: store}
}

// EnsureOperator provisions the operator account on first start. Existing
// accounts are left untouched, so a changed env password never silently
// overwrites one set through ChangePassword.
func (s *Service) EnsureOperator(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return errors.New("operator username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.CreateAdminUser(ctx, username, string(hash))
}

// Authenticate checks the credentials and returns the matched account. Any
// failure collapses to ErrInvalidCredentials so callers cannot distinguish
// a bad password from an unknown user.
func (s *Service) Authenticate(ctx context.Context, username, password string) (store.AdminUser, error) {
	if username == "" || password == "" {
		return store.AdminUser{}, ErrInvalidCredentials
	}
	user, err := s.store.GetAdminUser(ctx, username)
	if err != nil {
		return store.AdminUser{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return store.AdminUser{}, ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword re-verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if _, err := s.Authenticate(ctx, username, currentPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.UpdateAdminPassword(ctx, username, string(hash))
}
