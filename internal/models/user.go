package models

import "time"

// User represents an account identified by an opaque API token
type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	APIToken  string    `json:"apiToken,omitempty" db:"api_token"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
