package user

import "time"

// User is the identity record kept for attribution of privileged operations.
// The identity provider owns the lifecycle; this service only mirrors it.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}
