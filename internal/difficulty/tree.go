// Package difficulty implements the difficulty-tree subsystem: parsing
// user-submitted difficulty lists into storage records, reconstructing the
// ordered display shape from stored rows, and validating a map's claimed
// difficulty against a mod's configured tree.
package difficulty

import (
	"encoding/json"
	"fmt"
)

// Entry is one top-level difficulty in display order. A nil Children slice
// means the difficulty is a childless parent and is directly assignable to
// maps; a non-empty slice means only its children are assignable.
type Entry struct {
	Name     string
	Children []string
}

// Tree is the ordered display shape of a difficulty set. On the wire each
// entry is either a bare string ("Easy") or an array whose first element is
// the parent name followed by its children in order (["Medium", "Medium+"]).
type Tree []Entry

// HasSubDifficulties reports whether any entry has children.
func (t Tree) HasSubDifficulties() bool {
	for _, e := range t {
		if len(e.Children) > 0 {
			return true
		}
	}
	return false
}

// FlatNames returns every name in the tree, parents first within each entry,
// in display order.
func (t Tree) FlatNames() []string {
	names := make([]string, 0, len(t))
	for _, e := range t {
		names = append(names, e.Name)
		names = append(names, e.Children...)
	}
	return names
}

// MarshalJSON renders the wire shape: string for childless entries, array of
// [parent, children...] otherwise.
func (t Tree) MarshalJSON() ([]byte, error) {
	out := make([]interface{}, len(t))
	for i, e := range t {
		if len(e.Children) == 0 {
			out[i] = e.Name
			continue
		}
		arr := make([]string, 0, len(e.Children)+1)
		arr = append(arr, e.Name)
		arr = append(arr, e.Children...)
		out[i] = arr
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses the wire shape back into entries. Shape errors are
// reported as MalformedSubmissionError so callers can treat a bad tree body
// uniformly with a bad submission.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &MalformedSubmissionError{Reason: "difficulties must be a JSON array"}
	}

	tree := make(Tree, 0, len(raw))
	for i, elem := range raw {
		var name string
		if err := json.Unmarshal(elem, &name); err == nil {
			tree = append(tree, Entry{Name: name})
			continue
		}

		var group []string
		if err := json.Unmarshal(elem, &group); err != nil {
			return &MalformedSubmissionError{
				Reason: fmt.Sprintf("element %d must be a string or an array of strings", i+1),
			}
		}
		if len(group) == 0 {
			return &MalformedSubmissionError{
				Reason: fmt.Sprintf("element %d is an empty array", i+1),
			}
		}
		tree = append(tree, Entry{Name: group[0], Children: group[1:]})
	}

	*t = tree
	return nil
}
