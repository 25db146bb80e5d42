package adminauth

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"fogseason/api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	users map[string]store.AdminUser
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]store.AdminUser)}
}

func (f *fakeUserStore) GetAdminUser(_ context.Context, username string) (store.AdminUser, error) {
	user, ok := f.users[username]
	if !ok {
		return store.AdminUser{}, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserStore) CreateAdminUser(_ context.Context, username, passwordHash string) error {
	if _, ok := f.users[username]; ok {
		return nil
	}
	f.users[username] = store.AdminUser{Username: username, PasswordHash: passwordHash}
	return nil
}

func (f *fakeUserStore) UpdateAdminPassword(_ context.Context, username, passwordHash string) error {
	user, ok := f.users[username]
	if !ok {
		return sql.ErrNoRows
	}
	user.PasswordHash = passwordHash
	f.users[username] = user
	return nil
}

func TestEnsureOperatorAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	fs := newFakeUserStore()
	svc := NewService(fs)

	if err := svc.EnsureOperator(ctx, "admin", "correct horse"); err != nil {
		t.Fatalf("ensure operator: %v", err)
	}

	user, err := svc.Authenticate(ctx, "admin", "correct horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Username != "admin" {
		t.Fatalf("expected admin, got %q", user.Username)
	}
}

func TestEnsureOperatorDoesNotOverwriteExistingAccount(t *testing.T) {
	ctx := context.Background()
	fs := newFakeUserStore()
	svc := NewService(fs)

	if err := svc.EnsureOperator(ctx, "admin", "original-pass"); err != nil {
		t.Fatalf("ensure operator: %v", err)
	}
	if err := svc.EnsureOperator(ctx, "admin", "rotated-env-pass"); err != nil {
		t.Fatalf("ensure operator again: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "admin", "original-pass"); err != nil {
		t.Fatalf("original password should still work: %v", err)
	}
}

func TestAuthenticateRejectsBadPasswordAndUnknownUser(t *testing.T) {
	ctx := context.Background()
	fs := newFakeUserStore()
	svc := NewService(fs)
	if err := svc.EnsureOperator(ctx, "admin", "correct horse"); err != nil {
		t.Fatalf("ensure operator: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	fs := newFakeUserStore()
	svc := NewService(fs)
	if err := svc.EnsureOperator(ctx, "admin", "original-pass"); err != nil {
		t.Fatalf("ensure operator: %v", err)
	}

	if err := svc.ChangePassword(ctx, "admin", "wrong", "new-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(ctx, "admin", "original-pass", "short"); err == nil {
		t.Fatal("expected rejection of short password")
	}
	if err := svc.ChangePassword(ctx, "admin", "original-pass", "new-password"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	stored := fs.users["admin"]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password")); err != nil {
		t.Fatalf("stored hash should match new password: %v", err)
	}
}
