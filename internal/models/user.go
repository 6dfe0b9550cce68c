package models

import "time"

// User represents a site user
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	GamebananaID *int64    `json:"gamebanana_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
}

// LinkGamebananaRequest links a user to a GameBanana account by resolving
// the given username to an id
type LinkGamebananaRequest struct {
	GamebananaUsername string `json:"gamebanana_username"`
}
