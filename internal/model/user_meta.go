package model

import (
	"slices"
	"time"
)

// Subscription statuses mirrored from the billing provider.
const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// UserMeta holds billing identifiers and mailing preferences kept in the document store.
type UserMeta struct {
	UserID             string    `json:"user_id" bson:"user_id"`
	StripeCustomerID   string    `json:"stripe_customer_id,omitempty" bson:"stripe_customer_id,omitempty"`
	SubscriptionID     string    `json:"subscription_id,omitempty" bson:"subscription_id,omitempty"`
	SubscriptionStatus string    `json:"subscription_status,omitempty" bson:"subscription_status,omitempty"`
	PlanID             string    `json:"plan_id,omitempty" bson:"plan_id,omitempty"`
	Unsubscribed       []string  `json:"unsubscribed" bson:"unsubscribed"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" bson:"updated_at"`
}

// IsUnsubscribed reports whether the user opted out of the mailing list.
func (m *UserMeta) IsUnsubscribed(list string) bool {
	if m == nil {
		return false
	}
	return slices.Contains(m.Unsubscribed, list)
}

// HasActiveSubscription is true for paying and trialing subscriptions.
func (m *UserMeta) HasActiveSubscription() bool {
	if m == nil {
		return false
	}
	return m.SubscriptionStatus == SubscriptionActive || m.SubscriptionStatus == SubscriptionTrialing
}
