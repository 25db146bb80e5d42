// Package session tracks admin session liveness with a sliding inactivity
// window.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one key per session token hash; the key's TTL is the
// inactivity window and is refreshed on every authenticated request.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		prefix: "session:",
	}, nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:",
	}
}

func (s *RedisStore) key(tokenHash string) string {
	return s.prefix + tokenHash
}

// SaveSession records a fresh session with the inactivity window as TTL.
func (s *RedisStore) SaveSession(ctx context.Context, tokenHash, username string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 20 * time.Minute
	}
	if err := s.client.Set(ctx, s.key(tokenHash), username, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// TouchSession returns the session's username and slides the inactivity
// window. A missing or expired key yields sql.ErrNoRows so callers treat
// both backends uniformly.
func (s *RedisStore) TouchSession(ctx context.Context, tokenHash string, ttl time.Duration) (string, error) {
	key := s.key(tokenHash)
	username, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", sql.ErrNoRows
	}
	if err != nil {
		return "", fmt.Errorf("lookup session: %w", err)
	}
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return "", fmt.Errorf("touch session: %w", err)
	}
	return username, nil
}

// RevokeSession deletes the session key.
func (s *RedisStore) RevokeSession(ctx context.Context, tokenHash string) error {
	if err := s.client.Del(ctx, s.key(tokenHash)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
