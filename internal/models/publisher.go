package models

import "time"

// Publisher represents a content publisher, optionally linked to a
// GameBanana account
type Publisher struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	GamebananaID *int64    `json:"gamebanana_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreatePublisherRequest represents a request to create a publisher. When
// GamebananaID is set the name is resolved through the identity lookup; when
// only Name is set with ResolveGamebanana the id is resolved from the name.
type CreatePublisherRequest struct {
	Name              string `json:"name,omitempty"`
	GamebananaID      *int64 `json:"gamebanana_id,omitempty"`
	ResolveGamebanana bool   `json:"resolve_gamebanana,omitempty"`
}

// PublisherFilters defines filters for listing publishers
type PublisherFilters struct {
	Name   string
	Linked *bool // filter on presence of a gamebanana id
	Limit  int
	Offset int
}
