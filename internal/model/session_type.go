package model

import "time"

// SessionType is a bookable offering, e.g. a 30 minute intro call.
type SessionType struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ScheduleID      *string   `json:"schedule_id,omitempty"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int64     `json:"price_cents"`
	Currency        string    `json:"currency"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Duration returns the session length.
func (s *SessionType) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
