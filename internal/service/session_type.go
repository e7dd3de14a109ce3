package service

import (
	"context"
	"strings"

	"bookingapi/internal/cache"
	"bookingapi/internal/model"
	"bookingapi/internal/repository"
)

const defaultCurrency = "usd"

// SessionTypeService defines bookable session type use cases.
type SessionTypeService interface {
	Create(ctx context.Context, st *model.SessionType) (*model.SessionType, error)
	Get(ctx context.Context, id string) (*model.SessionType, error)
	ListByUser(ctx context.Context, userID string) ([]model.SessionType, error)
	Update(ctx context.Context, st *model.SessionType) (*model.SessionType, error)
	Delete(ctx context.Context, id string) error
}

type sessionTypeService struct {
	base
	repo repository.SessionTypeRepository
}

// NewSessionTypeService constructs a new SessionTypeService.
func NewSessionTypeService(repo repository.SessionTypeRepository, d Deps) SessionTypeService {
	return &sessionTypeService{base: newBase(d, "session_type"), repo: repo}
}

func (s *sessionTypeService) itemKey(id string) string { return s.keys.Key(id) }

func (s *sessionTypeService) listKey(userID string) string { return s.keys.Key("user", userID) }

func (s *sessionTypeService) Create(ctx context.Context, st *model.SessionType) (*model.SessionType, error) {
	if err := validateSessionType(st); err != nil {
		return nil, err
	}
	if st.UserID == "" {
		return nil, invalidf("user id is required")
	}
	created, err := s.repo.Create(ctx, st)
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}
	s.invalidate(ctx, s.listKey(created.UserID))
	return created, nil
}

func (s *sessionTypeService) Get(ctx context.Context, id string) (*model.SessionType, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	st, err := cache.Run(ctx, s.runner, s.itemKey(id), func(ctx context.Context) (*model.SessionType, error) {
		return s.repo.FindByID(ctx, id)
	})
	return result(ctx, s.base, "get", st, err)
}

func (s *sessionTypeService) ListByUser(ctx context.Context, userID string) ([]model.SessionType, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	items, err := cache.Run(ctx, s.runner, s.listKey(userID), func(ctx context.Context) ([]model.SessionType, error) {
		return s.repo.ListByUser(ctx, userID)
	})
	if err != nil {
		return nil, s.fail(ctx, "list_by_user", err)
	}
	return items, nil
}

func (s *sessionTypeService) Update(ctx context.Context, st *model.SessionType) (*model.SessionType, error) {
	if st == nil || st.ID == "" {
		return nil, ErrIDRequired
	}
	if err := validateSessionType(st); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, st)
	if err != nil {
		return result[*model.SessionType](ctx, s.base, "update", nil, err)
	}
	s.invalidate(ctx, s.itemKey(updated.ID), s.listKey(updated.UserID))
	return updated, nil
}

func (s *sessionTypeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		_, err = result[*model.SessionType](ctx, s.base, "delete", nil, err)
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, "delete", err)
	}
	s.invalidate(ctx, s.itemKey(id), s.listKey(st.UserID))
	return nil
}

func validateSessionType(st *model.SessionType) error {
	if st == nil {
		return invalidf("session type is required")
	}
	st.Name = strings.TrimSpace(st.Name)
	if st.Name == "" {
		return invalidf("name is required")
	}
	if st.DurationMinutes <= 0 {
		return invalidf("duration must be positive, got %d minutes", st.DurationMinutes)
	}
	if st.PriceCents < 0 {
		return invalidf("price must not be negative")
	}
	st.Currency = strings.ToLower(strings.TrimSpace(st.Currency))
	if st.Currency == "" {
		st.Currency = defaultCurrency
	}
	if len(st.Currency) != 3 {
		return invalidf("currency %q is not an ISO 4217 code", st.Currency)
	}
	return nil
}
