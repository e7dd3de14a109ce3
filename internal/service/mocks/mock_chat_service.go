package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bookingapi/internal/model"
	"bookingapi/internal/service"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) chat(args mock.Arguments) (*model.Chat, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Chat), args.Error(1)
}

func (m *MockChatService) CreateChat(ctx context.Context, userID, title string) (*model.Chat, error) {
	return m.chat(m.Called(ctx, userID, title))
}

func (m *MockChatService) GetChat(ctx context.Context, id string) (*model.Chat, error) {
	return m.chat(m.Called(ctx, id))
}

func (m *MockChatService) ListChats(ctx context.Context, userID string, limit, offset int) (*service.ListResult[model.Chat], error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Chat]), args.Error(1)
}

func (m *MockChatService) RenameChat(ctx context.Context, id, title string) (*model.Chat, error) {
	return m.chat(m.Called(ctx, id, title))
}

func (m *MockChatService) DeleteChat(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChatService) AddMessage(ctx context.Context, chatID, role, content string) (*model.ChatMessage, error) {
	args := m.Called(ctx, chatID, role, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatMessage), args.Error(1)
}

func (m *MockChatService) ListMessages(ctx context.Context, chatID string, limit, offset int) (*service.ListResult[model.ChatMessage], error) {
	args := m.Called(ctx, chatID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.ChatMessage]), args.Error(1)
}
