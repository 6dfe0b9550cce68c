package models

import (
	"time"

	"github.com/cragline/modcatalog/internal/difficulty"
)

// Map represents a single map belonging to a mod
type Map struct {
	ID           int64     `json:"id"`
	ModID        int64     `json:"mod_id"`
	Name         string    `json:"name"`
	MapperName   string    `json:"mapper_name"`
	DifficultyID int64     `json:"difficulty_id"`
	TechIDs      []int64   `json:"tech_ids,omitempty"`
	CreatedBy    int64     `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`

	// ModDifficulty is the display form of the assigned difficulty: a bare
	// name or a [parent, child] pair. Populated on reads.
	ModDifficulty difficulty.Claimed `json:"mod_difficulty"`
}

// CreateMapRequest represents a request to add a map to a mod. ModDifficulty
// must name an assignable difficulty in the mod's configured tree.
type CreateMapRequest struct {
	Name          string             `json:"name"`
	MapperName    string             `json:"mapper_name"`
	ModDifficulty difficulty.Claimed `json:"mod_difficulty"`
	TechIDs       []int64            `json:"tech_ids,omitempty"`
}
