package difficulty

import (
	"fmt"
	"strings"
)

// ChildCreation is a child difficulty row to be created under a parent.
// Order is the 1-based position within the sibling group.
type ChildCreation struct {
	Name  string
	Order int
}

// ParentCreation is a top-level difficulty row to be created, together with
// its children in display order. Order is the 1-based position among parents.
type ParentCreation struct {
	Name     string
	Order    int
	Children []ChildCreation
}

// ParsedSubmission is the storage-ready form of a difficulty submission.
type ParsedSubmission struct {
	// FlatNames lists every difficulty name in submission order, each parent
	// immediately followed by its children.
	FlatNames []string
	// Parents holds the nested creation records the repository persists.
	Parents []ParentCreation
	// HasSubDifficulties is true when any parent has at least one child.
	HasSubDifficulties bool
}

// ParseSubmission validates a submitted difficulty tree and converts it to
// creation records. Parent order is the 1-based position in the outer
// sequence; child order is the 1-based position within its group. Validation
// is eager: an empty submission, a blank name, or a duplicate name within a
// sibling scope fails with MalformedSubmissionError before anything is
// persisted.
func ParseSubmission(tree Tree) (*ParsedSubmission, error) {
	if len(tree) == 0 {
		return nil, &MalformedSubmissionError{Reason: "at least one difficulty is required"}
	}

	parsed := &ParsedSubmission{
		Parents: make([]ParentCreation, 0, len(tree)),
	}

	seenParents := make(map[string]bool, len(tree))
	for i, entry := range tree {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, &MalformedSubmissionError{
				Reason: fmt.Sprintf("difficulty %d has a blank name", i+1),
			}
		}
		if seenParents[name] {
			return nil, &MalformedSubmissionError{
				Reason: fmt.Sprintf("duplicate difficulty name %q", name),
			}
		}
		seenParents[name] = true

		parent := ParentCreation{Name: name, Order: i + 1}
		parsed.FlatNames = append(parsed.FlatNames, name)

		if len(entry.Children) > 0 {
			parsed.HasSubDifficulties = true
			seenChildren := make(map[string]bool, len(entry.Children))
			for j, childName := range entry.Children {
				childName = strings.TrimSpace(childName)
				if childName == "" {
					return nil, &MalformedSubmissionError{
						Reason: fmt.Sprintf("difficulty %q has a blank sub-difficulty name", name),
					}
				}
				if seenChildren[childName] {
					return nil, &MalformedSubmissionError{
						Reason: fmt.Sprintf("duplicate sub-difficulty name %q under %q", childName, name),
					}
				}
				seenChildren[childName] = true

				parent.Children = append(parent.Children, ChildCreation{
					Name:  childName,
					Order: j + 1,
				})
				parsed.FlatNames = append(parsed.FlatNames, childName)
			}
		}

		parsed.Parents = append(parsed.Parents, parent)
	}

	return parsed, nil
}
