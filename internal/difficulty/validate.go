package difficulty

import (
	"encoding/json"
	"fmt"
)

// Claimed is a map's claimed difficulty: either a bare parent name or a
// [parent, child] pair. On the wire it is a string or a two-element array.
type Claimed struct {
	Parent string
	Child  string
}

// IsPair reports whether the claim names a sub-difficulty.
func (c Claimed) IsPair() bool {
	return c.Child != ""
}

func (c Claimed) String() string {
	if c.IsPair() {
		return fmt.Sprintf("[%q, %q]", c.Parent, c.Child)
	}
	return fmt.Sprintf("%q", c.Parent)
}

// MarshalJSON renders a bare claim as a string and a pair as a two-element
// array.
func (c Claimed) MarshalJSON() ([]byte, error) {
	if c.IsPair() {
		return json.Marshal([2]string{c.Parent, c.Child})
	}
	return json.Marshal(c.Parent)
}

// UnmarshalJSON accepts "name" or ["parent", "child"].
func (c *Claimed) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = Claimed{Parent: name}
		return nil
	}

	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return &InvalidAssignmentError{
			Claimed: string(data),
			Reason:  "must be a difficulty name or a [parent, child] pair",
		}
	}
	if len(pair) != 2 {
		return &InvalidAssignmentError{
			Claimed: string(data),
			Reason:  fmt.Sprintf("pair must have exactly 2 elements, got %d", len(pair)),
		}
	}
	*c = Claimed{Parent: pair[0], Child: pair[1]}
	return nil
}

// ValidateAssignment checks a claimed difficulty against a mod's configured
// tree. A bare name is valid only for a childless parent; a pair is valid
// only when the child sits under that parent. This must run before any
// persistence write involving the map.
func ValidateAssignment(tree Tree, claimed Claimed) error {
	for _, entry := range tree {
		if entry.Name != claimed.Parent {
			continue
		}

		if claimed.IsPair() {
			if len(entry.Children) == 0 {
				return &InvalidAssignmentError{
					Claimed: claimed.String(),
					Reason:  fmt.Sprintf("%q has no sub-difficulties, supply the bare name", claimed.Parent),
				}
			}
			for _, child := range entry.Children {
				if child == claimed.Child {
					return nil
				}
			}
			return &InvalidAssignmentError{
				Claimed: claimed.String(),
				Reason:  fmt.Sprintf("%q is not a sub-difficulty of %q", claimed.Child, claimed.Parent),
			}
		}

		if len(entry.Children) > 0 {
			return &InvalidAssignmentError{
				Claimed: claimed.String(),
				Reason:  fmt.Sprintf("%q has sub-difficulties, supply a [parent, child] pair", claimed.Parent),
			}
		}
		return nil
	}

	return &InvalidAssignmentError{
		Claimed: claimed.String(),
		Reason:  "not present in the mod's difficulty tree",
	}
}

// FindRow locates the stored row a validated claim resolves to: the child
// row for a pair, the parent row for a bare name. Callers validate with
// ValidateAssignment first; ok is false only if rows and tree disagree.
func FindRow(rows []Row, claimed Claimed) (Row, bool) {
	var parent Row
	found := false
	for _, r := range rows {
		if r.ParentID == nil && r.Name == claimed.Parent {
			parent = r
			found = true
			break
		}
	}
	if !found {
		return Row{}, false
	}

	if !claimed.IsPair() {
		return parent, true
	}

	for _, r := range rows {
		if r.ParentID != nil && *r.ParentID == parent.ID && r.Name == claimed.Child {
			return r, true
		}
	}
	return Row{}, false
}
