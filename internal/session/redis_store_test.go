package session

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	return store, s
}

func TestNewRedisStore(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	store, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	defer store.Close()

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestSaveAndTouchSession(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	if err := store.SaveSession(ctx, "hash-1", "admin", 20*time.Minute); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	username, err := store.TouchSession(ctx, "hash-1", 20*time.Minute)
	if err != nil {
		t.Fatalf("TouchSession failed: %v", err)
	}
	if username != "admin" {
		t.Fatalf("expected admin, got %q", username)
	}
}

func TestTouchSessionSlidesInactivityWindow(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	if err := store.SaveSession(ctx, "hash-1", "admin", 20*time.Minute); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	// 15 minutes of idle, then activity: the session must survive another
	// 15 minutes of idle afterwards.
	s.FastForward(15 * time.Minute)
	if _, err := store.TouchSession(ctx, "hash-1", 20*time.Minute); err != nil {
		t.Fatalf("TouchSession after idle failed: %v", err)
	}
	s.FastForward(15 * time.Minute)
	if _, err := store.TouchSession(ctx, "hash-1", 20*time.Minute); err != nil {
		t.Fatalf("session should have been kept alive by activity: %v", err)
	}
}

func TestSessionExpiresAfterInactivity(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	if err := store.SaveSession(ctx, "hash-1", "admin", 20*time.Minute); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	s.FastForward(21 * time.Minute)
	if _, err := store.TouchSession(ctx, "hash-1", 20*time.Minute); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows after expiry, got %v", err)
	}
}

func TestRevokeSession(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	if err := store.SaveSession(ctx, "hash-1", "admin", 20*time.Minute); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if err := store.RevokeSession(ctx, "hash-1"); err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}
	if _, err := store.TouchSession(ctx, "hash-1", 20*time.Minute); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows after revoke, got %v", err)
	}
}
