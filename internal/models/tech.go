package models

import "time"

// Tech represents a gameplay technique maps can require. DifficultyID points
// at the default-tree difficulty the tech is canonically rated at.
type Tech struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	DifficultyID int64     `json:"difficulty_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateTechRequest represents a request to create a tech entry
type CreateTechRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DifficultyID int64  `json:"difficulty_id"`
}
