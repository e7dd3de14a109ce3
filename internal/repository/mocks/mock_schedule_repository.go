package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bookingapi/internal/model"
)

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) Create(ctx context.Context, s *model.UserSchedule) (*model.UserSchedule, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSchedule), args.Error(1)
}

func (m *MockScheduleRepository) FindByID(ctx context.Context, id string) (*model.UserSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSchedule), args.Error(1)
}

func (m *MockScheduleRepository) ListByUser(ctx context.Context, userID string) ([]model.UserSchedule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserSchedule), args.Error(1)
}

func (m *MockScheduleRepository) Update(ctx context.Context, s *model.UserSchedule) (*model.UserSchedule, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSchedule), args.Error(1)
}

func (m *MockScheduleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSessionTypeRepository struct {
	mock.Mock
}

func (m *MockSessionTypeRepository) Create(ctx context.Context, s *model.SessionType) (*model.SessionType, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionType), args.Error(1)
}

func (m *MockSessionTypeRepository) FindByID(ctx context.Context, id string) (*model.SessionType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionType), args.Error(1)
}

func (m *MockSessionTypeRepository) ListByUser(ctx context.Context, userID string) ([]model.SessionType, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SessionType), args.Error(1)
}

func (m *MockSessionTypeRepository) Update(ctx context.Context, s *model.SessionType) (*model.SessionType, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionType), args.Error(1)
}

func (m *MockSessionTypeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
