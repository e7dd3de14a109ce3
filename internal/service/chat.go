package service

import (
	"context"
	"strings"

	"bookingapi/internal/cache"
	"bookingapi/internal/model"
	"bookingapi/internal/repository"
)

const maxTitleLength = 200

// ChatService defines conversation use cases.
type ChatService interface {
	CreateChat(ctx context.Context, userID, title string) (*model.Chat, error)
	GetChat(ctx context.Context, id string) (*model.Chat, error)
	ListChats(ctx context.Context, userID string, limit, offset int) (*ListResult[model.Chat], error)
	RenameChat(ctx context.Context, id, title string) (*model.Chat, error)
	DeleteChat(ctx context.Context, id string) error
	AddMessage(ctx context.Context, chatID, role, content string) (*model.ChatMessage, error)
	ListMessages(ctx context.Context, chatID string, limit, offset int) (*ListResult[model.ChatMessage], error)
}

type chatService struct {
	base
	repo repository.ChatRepository
}

// NewChatService constructs a new ChatService.
func NewChatService(repo repository.ChatRepository, d Deps) ChatService {
	return &chatService{base: newBase(d, "chat"), repo: repo}
}

// Keys: chat::<id>, chat::user::<uid>::<limit>::<offset>, chat::<id>::messages::<limit>::<offset>.
func (s *chatService) itemKey(id string) string { return s.keys.Key(id) }

func (s *chatService) listPrefix(userID string) string { return s.keys.PrefixOf("user", userID) }

func (s *chatService) messagesPrefix(chatID string) string { return s.keys.PrefixOf(chatID, "messages") }

func (s *chatService) CreateChat(ctx context.Context, userID, title string) (*model.Chat, error) {
	if userID == "" {
		return nil, invalidf("user id is required")
	}
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.Create(ctx, &model.Chat{UserID: userID, Title: title})
	if err != nil {
		return nil, s.fail(ctx, "create_chat", err)
	}
	s.invalidatePrefix(ctx, s.listPrefix(userID))
	return c, nil
}

func (s *chatService) GetChat(ctx context.Context, id string) (*model.Chat, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	c, err := cache.Run(ctx, s.runner, s.itemKey(id), func(ctx context.Context) (*model.Chat, error) {
		return s.repo.FindByID(ctx, id)
	})
	return result(ctx, s.base, "get_chat", c, err)
}

func (s *chatService) ListChats(ctx context.Context, userID string, limit, offset int) (*ListResult[model.Chat], error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	limit, offset = normalizePage(limit, offset)
	key := s.keys.Key("user", userID, limit, offset)
	res, err := cache.Run(ctx, s.runner, key, func(ctx context.Context) (*ListResult[model.Chat], error) {
		page, err := s.repo.ListByUser(ctx, userID, repository.PageQuery{Limit: limit, Offset: offset})
		if err != nil {
			return nil, err
		}
		return &ListResult[model.Chat]{Items: page.Items, Total: page.Total}, nil
	})
	if err != nil {
		return nil, s.fail(ctx, "list_chats", err)
	}
	return res, nil
}

func (s *chatService) RenameChat(ctx context.Context, id, title string) (*model.Chat, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.UpdateTitle(ctx, id, title)
	if err != nil {
		return result[*model.Chat](ctx, s.base, "rename_chat", nil, err)
	}
	s.invalidate(ctx, s.itemKey(id))
	s.invalidatePrefix(ctx, s.listPrefix(c.UserID))
	return c, nil
}

func (s *chatService) DeleteChat(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		_, err = result[*model.Chat](ctx, s.base, "delete_chat", nil, err)
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, "delete_chat", err)
	}
	s.invalidate(ctx, s.itemKey(id))
	s.invalidatePrefix(ctx, s.listPrefix(c.UserID), s.messagesPrefix(id))
	return nil
}

func (s *chatService) AddMessage(ctx context.Context, chatID, role, content string) (*model.ChatMessage, error) {
	if chatID == "" {
		return nil, ErrIDRequired
	}
	if !model.ValidRole(role) {
		return nil, invalidf("unknown role %q", role)
	}
	if strings.TrimSpace(content) == "" {
		return nil, invalidf("content is required")
	}

	c, err := s.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	m, err := s.repo.AddMessage(ctx, &model.ChatMessage{ChatID: chatID, Role: role, Content: content})
	if err != nil {
		return nil, s.fail(ctx, "add_message", err)
	}

	// The chat moved to the top of the user's list and its updated_at changed.
	s.invalidate(ctx, s.itemKey(chatID))
	s.invalidatePrefix(ctx, s.messagesPrefix(chatID), s.listPrefix(c.UserID))
	return m, nil
}

func (s *chatService) ListMessages(ctx context.Context, chatID string, limit, offset int) (*ListResult[model.ChatMessage], error) {
	if chatID == "" {
		return nil, ErrIDRequired
	}
	limit, offset = normalizePage(limit, offset)
	key := s.keys.Key(chatID, "messages", limit, offset)
	res, err := cache.Run(ctx, s.runner, key, func(ctx context.Context) (*ListResult[model.ChatMessage], error) {
		page, err := s.repo.ListMessages(ctx, chatID, repository.PageQuery{Limit: limit, Offset: offset})
		if err != nil {
			return nil, err
		}
		return &ListResult[model.ChatMessage]{Items: page.Items, Total: page.Total}, nil
	})
	if err != nil {
		return nil, s.fail(ctx, "list_messages", err)
	}
	return res, nil
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if len(title) > maxTitleLength {
		return "", invalidf("title is longer than %d characters", maxTitleLength)
	}
	return title, nil
}
