// Package repository contains data access layer abstractions.
// Implementations live in subpackages: postgres for the relational tables and
// mongo for the document collections. Repositories hold no business logic and
// return driver errors unchanged.
package repository

import (
	"context"

	"bookingapi/internal/model"
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// UserRepository persists accounts.
type UserRepository interface {
	// Create inserts a user. An empty ID lets the database generate one.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	// Update overwrites the mutable columns and returns the stored row.
	Update(ctx context.Context, u *model.User) (*model.User, error)
	// Delete removes a user. It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pq PageQuery) (*PageResult[model.User], error)
}

// ChatRepository persists chats and their messages.
type ChatRepository interface {
	Create(ctx context.Context, c *model.Chat) (*model.Chat, error)
	FindByID(ctx context.Context, id string) (*model.Chat, error)
	// ListByUser returns the user's chats, most recently active first.
	ListByUser(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.Chat], error)
	UpdateTitle(ctx context.Context, id, title string) (*model.Chat, error)
	Delete(ctx context.Context, id string) error
	// AddMessage appends a message and bumps the chat's updated_at.
	AddMessage(ctx context.Context, m *model.ChatMessage) (*model.ChatMessage, error)
	// ListMessages returns messages oldest first.
	ListMessages(ctx context.Context, chatID string, pq PageQuery) (*PageResult[model.ChatMessage], error)
}

// ScheduleRepository persists iCal availability schedules.
type ScheduleRepository interface {
	Create(ctx context.Context, s *model.UserSchedule) (*model.UserSchedule, error)
	FindByID(ctx context.Context, id string) (*model.UserSchedule, error)
	ListByUser(ctx context.Context, userID string) ([]model.UserSchedule, error)
	Update(ctx context.Context, s *model.UserSchedule) (*model.UserSchedule, error)
	Delete(ctx context.Context, id string) error
}

// SessionTypeRepository persists bookable session types.
type SessionTypeRepository interface {
	Create(ctx context.Context, s *model.SessionType) (*model.SessionType, error)
	FindByID(ctx context.Context, id string) (*model.SessionType, error)
	ListByUser(ctx context.Context, userID string) ([]model.SessionType, error)
	Update(ctx context.Context, s *model.SessionType) (*model.SessionType, error)
	Delete(ctx context.Context, id string) error
}

// UsageRepository persists per-day activity flags.
type UsageRepository interface {
	FindByUser(ctx context.Context, userID string) (*model.Usage, error)
	// SetDay marks a single day, creating the document when needed.
	SetDay(ctx context.Context, userID, day string, used bool) error
	Delete(ctx context.Context, userID string) error
}

// BillingUpdate carries billing identifiers. Empty fields are left unchanged.
type BillingUpdate struct {
	StripeCustomerID   string
	SubscriptionID     string
	SubscriptionStatus string
	PlanID             string
}

// UserMetaRepository persists billing identifiers and mailing preferences.
type UserMetaRepository interface {
	FindByUser(ctx context.Context, userID string) (*model.UserMeta, error)
	SetBilling(ctx context.Context, userID string, b BillingUpdate) error
	Unsubscribe(ctx context.Context, userID, list string) error
	Resubscribe(ctx context.Context, userID, list string) error
	Delete(ctx context.Context, userID string) error
}
