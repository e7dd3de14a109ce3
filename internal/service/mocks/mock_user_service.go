package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bookingapi/internal/model"
	"bookingapi/internal/service"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) user(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id string) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserService) GetByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	return m.user(m.Called(ctx, googleID))
}

func (m *MockUserService) GetForLogin(ctx context.Context, email string) (*model.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserService) Create(ctx context.Context, u *model.User) (*model.User, error) {
	return m.user(m.Called(ctx, u))
}

func (m *MockUserService) Update(ctx context.Context, u *model.User) (*model.User, error) {
	return m.user(m.Called(ctx, u))
}

func (m *MockUserService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) List(ctx context.Context, limit, offset int) (*service.ListResult[model.User], error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.User]), args.Error(1)
}
