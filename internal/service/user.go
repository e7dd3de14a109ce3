package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"bookingapi/internal/cache"
	"bookingapi/internal/model"
	"bookingapi/internal/repository"
)

// UserService defines account use cases.
type UserService interface {
	Get(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	// GetForLogin reads the primary store so the password hash is current.
	// Cached users never carry a password hash.
	GetForLogin(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Update(ctx context.Context, u *model.User) (*model.User, error)
	// Delete removes the user. Owned data outside the database goes first,
	// then the row, and dependent rows cascade.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) (*ListResult[model.User], error)
}

// OwnedDataDeleter removes per-user data kept outside the relational store.
type OwnedDataDeleter interface {
	Delete(ctx context.Context, userID string) error
}

type userService struct {
	base
	repo  repository.UserRepository
	owned []OwnedDataDeleter
}

// NewUserService constructs a new UserService. owned are cleared on user deletion.
func NewUserService(repo repository.UserRepository, d Deps, owned ...OwnedDataDeleter) UserService {
	return &userService{base: newBase(d, "user"), repo: repo, owned: owned}
}

func (s *userService) idKey(id string) string { return s.keys.Key(id) }

func (s *userService) emailKey(email string) string {
	return s.keys.Key("email", strings.ToLower(email))
}

func (s *userService) googleKey(googleID string) string {
	if googleID == "" {
		return ""
	}
	return s.keys.Key("google", googleID)
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	u, err := cache.Run(ctx, s.runner, s.idKey(id), func(ctx context.Context) (*model.User, error) {
		return s.repo.FindByID(ctx, id)
	})
	return result(ctx, s.base, "get", u, err)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, invalidf("email is required")
	}
	u, err := cache.Run(ctx, s.runner, s.emailKey(email), func(ctx context.Context) (*model.User, error) {
		return s.repo.FindByEmail(ctx, email)
	})
	return result(ctx, s.base, "get_by_email", u, err)
}

func (s *userService) GetByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	if googleID == "" {
		return nil, invalidf("google id is required")
	}
	u, err := cache.Run(ctx, s.runner, s.googleKey(googleID), func(ctx context.Context) (*model.User, error) {
		return s.repo.FindByGoogleID(ctx, googleID)
	})
	return result(ctx, s.base, "get_by_google_id", u, err)
}

func (s *userService) GetForLogin(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, invalidf("email is required")
	}
	u, err := s.repo.FindByEmail(ctx, email)
	return result(ctx, s.base, "get_for_login", u, err)
}

func (s *userService) Create(ctx context.Context, u *model.User) (*model.User, error) {
	if err := validateUser(u); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}
	return created, nil
}

func (s *userService) Update(ctx context.Context, u *model.User) (*model.User, error) {
	if u == nil || u.ID == "" {
		return nil, ErrIDRequired
	}
	if err := validateUser(u); err != nil {
		return nil, err
	}

	prev, err := s.repo.FindByID(ctx, u.ID)
	if err != nil {
		return result[*model.User](ctx, s.base, "update", nil, err)
	}
	// Cached users arrive without a hash; an empty hash keeps the stored one.
	next := *u
	if next.PasswordHash == "" {
		next.PasswordHash = prev.PasswordHash
	}
	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		return result[*model.User](ctx, s.base, "update", nil, err)
	}

	s.invalidate(ctx, s.userKeys(prev)...)
	s.invalidate(ctx, s.userKeys(updated)...)
	return updated, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	prev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		_, err = result[*model.User](ctx, s.base, "delete", nil, err)
		return err
	}
	for _, o := range s.owned {
		// The owning service has already logged and reported the failure.
		if err := o.Delete(ctx, id); err != nil {
			return fmt.Errorf("user delete: %w", err)
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, "delete", err)
	}

	s.invalidate(ctx, s.userKeys(prev)...)
	s.invalidate(ctx,
		s.root.Key("schedule", "user", id),
		s.root.Key("session_type", "user", id),
	)
	s.invalidatePrefix(ctx, s.root.PrefixOf("chat", "user", id))
	return nil
}

func (s *userService) List(ctx context.Context, limit, offset int) (*ListResult[model.User], error) {
	limit, offset = normalizePage(limit, offset)
	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, s.fail(ctx, "list", err)
	}
	return &ListResult[model.User]{Items: res.Items, Total: res.Total}, nil
}

func (s *userService) userKeys(u *model.User) []string {
	return []string{s.idKey(u.ID), s.emailKey(u.Email), s.googleKey(u.GoogleID)}
}

func validateUser(u *model.User) error {
	if u == nil {
		return invalidf("user is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return invalidf("email %q is not valid", u.Email)
	}
	if u.Timezone == "" {
		u.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(u.Timezone); err != nil {
		return invalidf("unknown timezone %q", u.Timezone)
	}
	return nil
}
