package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"bookingapi/internal/config"
)

// SessionStore keeps opaque login sessions in Redis as <prefix>:<token> -> user id.
// Every successful Get pushes the expiry forward by the session TTL.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewSessionStore(client redis.UniversalClient, cfg config.SessionConfig) *SessionStore {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "sess"
	}
	return &SessionStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *SessionStore) key(token string) string {
	return s.prefix + ":" + token
}

// TTL is the idle lifetime of a session.
func (s *SessionStore) TTL() time.Duration { return s.ttl }

// Create starts a session for userID and returns its token.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("session: user id is required")
	}
	token := uuid.NewString()
	if err := s.client.Set(ctx, s.key(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	return token, nil
}

// Get returns the user id behind token.
func (s *SessionStore) Get(ctx context.Context, token string) (string, error) {
	if _, err := uuid.Parse(token); err != nil {
		return "", unauthorized("malformed session token", nil)
	}
	userID, err := s.client.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", unauthorized("session expired", nil)
	}
	if err != nil {
		return "", fmt.Errorf("session get: %w", err)
	}
	if err := s.client.Expire(ctx, s.key(token), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session touch: %w", err)
	}
	return userID, nil
}

// Destroy ends the session. Unknown tokens are ignored.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}
