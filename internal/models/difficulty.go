package models

import "github.com/cragline/modcatalog/internal/difficulty"

// Difficulty is a persisted difficulty row. ModID is nil for members of the
// global default tree; ParentID is nil for top-level difficulties. Order is
// 1-based and contiguous within a sibling group.
type Difficulty struct {
	ID       int64  `json:"id"`
	ModID    *int64 `json:"mod_id,omitempty"`
	Name     string `json:"name"`
	Order    int    `json:"order"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// DifficultyRows converts persisted rows to the reconstructor's input shape.
func DifficultyRows(ds []Difficulty) []difficulty.Row {
	rows := make([]difficulty.Row, len(ds))
	for i, d := range ds {
		rows[i] = difficulty.Row{
			ID:       d.ID,
			Name:     d.Name,
			Order:    d.Order,
			ParentID: d.ParentID,
		}
	}
	return rows
}
