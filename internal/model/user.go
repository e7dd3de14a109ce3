package model

import "time"

// User is an account holder. PasswordHash is empty for accounts created through OAuth.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	GoogleID     string    `json:"google_id,omitempty"`
	Timezone     string    `json:"timezone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword reports whether the user can sign in with the local strategy.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
