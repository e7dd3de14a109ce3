package service

import (
	"context"
	"strings"

	"bookingapi/internal/cache"
	"bookingapi/internal/model"
	"bookingapi/internal/repository"
)

// UserMetaService manages billing identifiers and mailing preferences.
type UserMetaService interface {
	// Get returns the user's metadata. A user without metadata gets an empty record.
	Get(ctx context.Context, userID string) (*model.UserMeta, error)
	SetBilling(ctx context.Context, userID string, b repository.BillingUpdate) error
	Unsubscribe(ctx context.Context, userID, list string) error
	Resubscribe(ctx context.Context, userID, list string) error
	IsUnsubscribed(ctx context.Context, userID, list string) (bool, error)
	Delete(ctx context.Context, userID string) error
}

type userMetaService struct {
	base
	repo repository.UserMetaRepository
}

// NewUserMetaService constructs a new UserMetaService.
func NewUserMetaService(repo repository.UserMetaRepository, d Deps) UserMetaService {
	return &userMetaService{base: newBase(d, "user_meta"), repo: repo}
}

func (s *userMetaService) Get(ctx context.Context, userID string) (*model.UserMeta, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	m, err := cache.Run(ctx, s.runner, s.keys.Key(userID), func(ctx context.Context) (*model.UserMeta, error) {
		m, err := s.repo.FindByUser(ctx, userID)
		if isNotFound(err) {
			return &model.UserMeta{UserID: userID, Unsubscribed: []string{}}, nil
		}
		return m, err
	})
	if err != nil {
		return nil, s.fail(ctx, "get", err)
	}
	return m, nil
}

func (s *userMetaService) SetBilling(ctx context.Context, userID string, b repository.BillingUpdate) error {
	if userID == "" {
		return ErrIDRequired
	}
	switch b.SubscriptionStatus {
	case "", model.SubscriptionActive, model.SubscriptionTrialing, model.SubscriptionPastDue, model.SubscriptionCanceled:
	default:
		return invalidf("unknown subscription status %q", b.SubscriptionStatus)
	}
	if err := s.repo.SetBilling(ctx, userID, b); err != nil {
		return s.fail(ctx, "set_billing", err)
	}
	s.invalidate(ctx, s.keys.Key(userID))
	return nil
}

func (s *userMetaService) Unsubscribe(ctx context.Context, userID, list string) error {
	return s.updateList(ctx, "unsubscribe", userID, list, s.repo.Unsubscribe)
}

func (s *userMetaService) Resubscribe(ctx context.Context, userID, list string) error {
	return s.updateList(ctx, "resubscribe", userID, list, s.repo.Resubscribe)
}

func (s *userMetaService) updateList(ctx context.Context, op, userID, list string, write func(context.Context, string, string) error) error {
	if userID == "" {
		return ErrIDRequired
	}
	list = strings.TrimSpace(list)
	if list == "" {
		return invalidf("list is required")
	}
	if err := write(ctx, userID, list); err != nil {
		return s.fail(ctx, op, err)
	}
	s.invalidate(ctx, s.keys.Key(userID))
	return nil
}

func (s *userMetaService) IsUnsubscribed(ctx context.Context, userID, list string) (bool, error) {
	m, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return m.IsUnsubscribed(list), nil
}

func (s *userMetaService) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return s.fail(ctx, "delete", err)
	}
	s.invalidate(ctx, s.keys.Key(userID))
	return nil
}
