package service

import (
	"context"
	"time"

	"bookingapi/internal/cache"
	"bookingapi/internal/model"
	"bookingapi/internal/repository"
)

// UsageService tracks the days on which a user was active.
type UsageService interface {
	// Get returns the user's usage. A user without usage gets an empty record.
	Get(ctx context.Context, userID string) (*model.Usage, error)
	// RecordUse marks the day containing at, in the user's timezone, and returns its key.
	RecordUse(ctx context.Context, userID string, at time.Time, timezone string) (string, error)
	UsedOn(ctx context.Context, userID, day string) (bool, error)
	// Delete removes the user's usage. Missing usage is not an error.
	Delete(ctx context.Context, userID string) error
}

type usageService struct {
	base
	repo repository.UsageRepository
}

// NewUsageService constructs a new UsageService.
func NewUsageService(repo repository.UsageRepository, d Deps) UsageService {
	return &usageService{base: newBase(d, "usage"), repo: repo}
}

func (s *usageService) Get(ctx context.Context, userID string) (*model.Usage, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	u, err := cache.Run(ctx, s.runner, s.keys.Key(userID), func(ctx context.Context) (*model.Usage, error) {
		u, err := s.repo.FindByUser(ctx, userID)
		if isNotFound(err) {
			return &model.Usage{UserID: userID, Days: map[string]bool{}}, nil
		}
		return u, err
	})
	if err != nil {
		return nil, s.fail(ctx, "get", err)
	}
	return u, nil
}

func (s *usageService) RecordUse(ctx context.Context, userID string, at time.Time, timezone string) (string, error) {
	if userID == "" {
		return "", ErrIDRequired
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", invalidf("unknown timezone %q", timezone)
	}
	day := model.DayKey(at, loc)
	if err := s.repo.SetDay(ctx, userID, day, true); err != nil {
		return "", s.fail(ctx, "record_use", err)
	}
	s.invalidate(ctx, s.keys.Key(userID))
	return day, nil
}

func (s *usageService) UsedOn(ctx context.Context, userID, day string) (bool, error) {
	if _, err := time.Parse(model.DayLayout, day); err != nil {
		return false, invalidf("day %q is not in %s format", day, model.DayLayout)
	}
	u, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.UsedOn(day), nil
}

func (s *usageService) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return s.fail(ctx, "delete", err)
	}
	s.invalidate(ctx, s.keys.Key(userID))
	return nil
}
