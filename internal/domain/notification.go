package domain

import "time"

// Notification is an in-app message shown to a user, written when a request
// addressed to them is created or decided.
type Notification struct {
	ID        int32     `json:"id"`
	UserID    int32     `json:"user_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
