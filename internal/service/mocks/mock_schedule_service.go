package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bookingapi/internal/model"
)

type MockScheduleService struct {
	mock.Mock
}

func (m *MockScheduleService) Create(ctx context.Context, s *model.UserSchedule) (*model.UserSchedule, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSchedule), args.Error(1)
}

func (m *MockScheduleService) Get(ctx context.Context, id string) (*model.UserSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSchedule), args.Error(1)
}

func (m *MockScheduleService) ListByUser(ctx context.Context, userID string) ([]model.UserSchedule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserSchedule), args.Error(1)
}

func (m *MockScheduleService) Update(ctx context.Context, s *model.UserSchedule) (*model.UserSchedule, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSchedule), args.Error(1)
}

func (m *MockScheduleService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockScheduleService) Export(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type MockSessionTypeService struct {
	mock.Mock
}

func (m *MockSessionTypeService) Create(ctx context.Context, st *model.SessionType) (*model.SessionType, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionType), args.Error(1)
}

func (m *MockSessionTypeService) Get(ctx context.Context, id string) (*model.SessionType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionType), args.Error(1)
}

func (m *MockSessionTypeService) ListByUser(ctx context.Context, userID string) ([]model.SessionType, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SessionType), args.Error(1)
}

func (m *MockSessionTypeService) Update(ctx context.Context, st *model.SessionType) (*model.SessionType, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionType), args.Error(1)
}

func (m *MockSessionTypeService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
