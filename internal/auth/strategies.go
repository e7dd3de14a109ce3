package auth

import (
	"context"
	"strings"

	"bookingapi/internal/model"
)

// Strategy names.
const (
	StrategyLocal   = "local"
	StrategyJWT     = "jwt"
	StrategySession = "session"
	StrategyGoogle  = "google"
)

// LocalStrategy checks an email and password against the stored bcrypt hash.
type LocalStrategy struct {
	users Users
}

func NewLocalStrategy(users Users) *LocalStrategy {
	return &LocalStrategy{users: users}
}

func (s *LocalStrategy) Name() string { return StrategyLocal }

func (s *LocalStrategy) Authenticate(ctx context.Context, c Credentials) (*model.User, error) {
	email := strings.TrimSpace(c.Email)
	if email == "" || c.Password == "" {
		return nil, unauthorized("email and password are required", nil)
	}
	u, err := lookup(s.users.GetForLogin(ctx, email))
	if err != nil {
		return nil, err
	}
	if !u.HasPassword() {
		return nil, unauthorized("account has no password", nil)
	}
	if err := CheckPassword(u.PasswordHash, c.Password); err != nil {
		return nil, err
	}
	return u, nil
}

// JWTStrategy accepts bearer tokens issued by a TokenIssuer.
type JWTStrategy struct {
	tokens *TokenIssuer
	users  Users
}

func NewJWTStrategy(tokens *TokenIssuer, users Users) *JWTStrategy {
	return &JWTStrategy{tokens: tokens, users: users}
}

func (s *JWTStrategy) Name() string { return StrategyJWT }

func (s *JWTStrategy) Authenticate(ctx context.Context, c Credentials) (*model.User, error) {
	claims, err := s.tokens.Parse(c.Token)
	if err != nil {
		return nil, err
	}
	return lookup(s.users.Get(ctx, claims.UserID))
}

// SessionStrategy accepts opaque session tokens kept in Redis.
type SessionStrategy struct {
	sessions *SessionStore
	users    Users
}

func NewSessionStrategy(sessions *SessionStore, users Users) *SessionStrategy {
	return &SessionStrategy{sessions: sessions, users: users}
}

func (s *SessionStrategy) Name() string { return StrategySession }

func (s *SessionStrategy) Authenticate(ctx context.Context, c Credentials) (*model.User, error) {
	userID, err := s.sessions.Get(ctx, c.Token)
	if err != nil {
		return nil, err
	}
	return lookup(s.users.Get(ctx, userID))
}
