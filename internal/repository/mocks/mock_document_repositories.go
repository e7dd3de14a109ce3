package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bookingapi/internal/model"
	"bookingapi/internal/repository"
)

type MockUsageRepository struct {
	mock.Mock
}

func (m *MockUsageRepository) FindByUser(ctx context.Context, userID string) (*model.Usage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Usage), args.Error(1)
}

func (m *MockUsageRepository) SetDay(ctx context.Context, userID, day string, used bool) error {
	args := m.Called(ctx, userID, day, used)
	return args.Error(0)
}

func (m *MockUsageRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockUserMetaRepository struct {
	mock.Mock
}

func (m *MockUserMetaRepository) FindByUser(ctx context.Context, userID string) (*model.UserMeta, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserMeta), args.Error(1)
}

func (m *MockUserMetaRepository) SetBilling(ctx context.Context, userID string, b repository.BillingUpdate) error {
	args := m.Called(ctx, userID, b)
	return args.Error(0)
}

func (m *MockUserMetaRepository) Unsubscribe(ctx context.Context, userID, list string) error {
	args := m.Called(ctx, userID, list)
	return args.Error(0)
}

func (m *MockUserMetaRepository) Resubscribe(ctx context.Context, userID, list string) error {
	args := m.Called(ctx, userID, list)
	return args.Error(0)
}

func (m *MockUserMetaRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
