package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bookingapi/internal/mail"
	"bookingapi/internal/model"
	"bookingapi/internal/repository"
)

type MockUserMetaService struct {
	mock.Mock
}

func (m *MockUserMetaService) Get(ctx context.Context, userID string) (*model.UserMeta, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserMeta), args.Error(1)
}

func (m *MockUserMetaService) SetBilling(ctx context.Context, userID string, b repository.BillingUpdate) error {
	args := m.Called(ctx, userID, b)
	return args.Error(0)
}

func (m *MockUserMetaService) Unsubscribe(ctx context.Context, userID, list string) error {
	args := m.Called(ctx, userID, list)
	return args.Error(0)
}

func (m *MockUserMetaService) Resubscribe(ctx context.Context, userID, list string) error {
	args := m.Called(ctx, userID, list)
	return args.Error(0)
}

func (m *MockUserMetaService) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserMetaService) IsUnsubscribed(ctx context.Context, userID, list string) (bool, error) {
	args := m.Called(ctx, userID, list)
	return args.Bool(0), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Send(ctx context.Context, userID, list, transport string, msg mail.Message) error {
	args := m.Called(ctx, userID, list, transport, msg)
	return args.Error(0)
}
