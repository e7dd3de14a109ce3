package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"bookingapi/internal/model"
)

type MockUsageService struct {
	mock.Mock
}

func (m *MockUsageService) Get(ctx context.Context, userID string) (*model.Usage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Usage), args.Error(1)
}

func (m *MockUsageService) RecordUse(ctx context.Context, userID string, at time.Time, timezone string) (string, error) {
	args := m.Called(ctx, userID, at, timezone)
	return args.String(0), args.Error(1)
}

func (m *MockUsageService) UsedOn(ctx context.Context, userID, day string) (bool, error) {
	args := m.Called(ctx, userID, day)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsageService) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
