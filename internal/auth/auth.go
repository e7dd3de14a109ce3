// Package auth authenticates users through pluggable strategies: local password,
// bearer JWT, Google OAuth2 and opaque Redis-backed sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"bookingapi/internal/logging"
	"bookingapi/internal/model"
	"bookingapi/internal/service"
)

var (
	// ErrUnauthorized is wrapped by every credential failure.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnknownStrategy is returned for names that were never registered.
	ErrUnknownStrategy = errors.New("unknown auth strategy")
)

// Credentials carries whatever a strategy needs. Each strategy reads only its own fields.
type Credentials struct {
	Email    string
	Password string
	// Token is a bearer JWT or an opaque session token.
	Token string
	// Code is an OAuth2 authorization code.
	Code string
}

// Strategy resolves credentials to a user.
type Strategy interface {
	Name() string
	Authenticate(ctx context.Context, c Credentials) (*model.User, error)
}

// Users is the account lookup the strategies depend on. service.UserService satisfies it.
type Users interface {
	Get(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	GetForLogin(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Update(ctx context.Context, u *model.User) (*model.User, error)
}

// Registry holds the strategies available to the HTTP layer.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	log        *logrus.Entry
}

// NewRegistry returns a registry holding the given strategies.
func NewRegistry(log logrus.FieldLogger, strategies ...Strategy) *Registry {
	r := &Registry{
		strategies: make(map[string]Strategy, len(strategies)),
		log:        logging.Component(log, "auth"),
	}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// Register adds s, replacing any strategy with the same name.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.Name()] = s
}

func (r *Registry) Get(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	return s, ok
}

// Names lists registered strategies in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for n := range r.strategies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Authenticate runs the named strategy.
func (r *Registry) Authenticate(ctx context.Context, name string, c Credentials) (*model.User, error) {
	s, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}
	u, err := s.Authenticate(ctx, c)
	if err != nil {
		entry := r.log.WithField("strategy", name).WithError(err)
		if errors.Is(err, ErrUnauthorized) {
			entry.Debug("auth_rejected")
		} else {
			entry.Error("auth_failed")
		}
		return nil, err
	}
	r.log.WithFields(logrus.Fields{"strategy": name, "user_id": u.ID}).Debug("auth_ok")
	return u, nil
}

// unauthorized wraps err with ErrUnauthorized.
func unauthorized(reason string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrUnauthorized, reason)
	}
	return fmt.Errorf("%w: %s: %w", ErrUnauthorized, reason, err)
}

// lookup turns a missing user into ErrUnauthorized and passes other failures through.
func lookup(u *model.User, err error) (*model.User, error) {
	if errors.Is(err, service.ErrNotFound) {
		return nil, unauthorized("unknown user", nil)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
