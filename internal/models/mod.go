package models

import (
	"time"

	"github.com/cragline/modcatalog/internal/difficulty"
)

// ModType classifies a mod submission
type ModType string

const (
	ModTypeNormal  ModType = "normal"
	ModTypeCollab  ModType = "collab"
	ModTypeContest ModType = "contest"
	ModTypeLobby   ModType = "lobby"
)

// IsValid returns true for a known mod type
func (t ModType) IsValid() bool {
	switch t {
	case ModTypeNormal, ModTypeCollab, ModTypeContest, ModTypeLobby:
		return true
	}
	return false
}

// Mod represents a published mod in the catalog
type Mod struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               ModType   `json:"type"`
	PublisherID        int64     `json:"publisher_id"`
	GamebananaModID    *int64    `json:"gamebanana_mod_id,omitempty"`
	ContentWarning     bool      `json:"content_warning"`
	Approved           bool      `json:"approved"`
	HasSubDifficulties bool      `json:"has_sub_difficulties"`
	CreatedBy          int64     `json:"created_by"`
	CreatedAt          time.Time `json:"created_at"`

	// Difficulties is the display tree: the mod's custom tree when it has
	// one, otherwise the global default tree. Populated on reads, not stored
	// on the row itself.
	Difficulties difficulty.Tree `json:"difficulties,omitempty"`
}

// ModFilters defines filters for listing mods
type ModFilters struct {
	PublisherID int64
	Type        ModType
	Approved    *bool
	Limit       int
	Offset      int
}

// CreateModRequest represents a request to create a mod. Exactly one of
// PublisherID or PublisherGamebananaID identifies the publisher; the latter
// is resolved (and the publisher created if unknown) through the identity
// lookup. Difficulties is optional; when omitted the mod uses the default
// tree.
type CreateModRequest struct {
	Name                  string          `json:"name"`
	Type                  ModType         `json:"type"`
	PublisherID           int64           `json:"publisher_id,omitempty"`
	PublisherGamebananaID int64           `json:"publisher_gamebanana_id,omitempty"`
	GamebananaModID       *int64          `json:"gamebanana_mod_id,omitempty"`
	ContentWarning        bool            `json:"content_warning"`
	Difficulties          difficulty.Tree `json:"difficulties,omitempty"`
}

// UpdateModRequest represents a partial mod update
type UpdateModRequest struct {
	Name           *string `json:"name,omitempty"`
	ContentWarning *bool   `json:"content_warning,omitempty"`
	Approved       *bool   `json:"approved,omitempty"`
}
