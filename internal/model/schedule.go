package model

import "time"

// UserSchedule stores a user's availability as iCal text.
// ICal is opaque to this layer; recurrence expansion happens in the client.
type UserSchedule struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	ICal      string    `json:"ical"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
