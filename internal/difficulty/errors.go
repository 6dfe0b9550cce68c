package difficulty

import "fmt"

// MalformedSubmissionError indicates a difficulty submission that fails shape
// validation: an empty group, a blank name, or a duplicate name within one
// sibling scope.
type MalformedSubmissionError struct {
	Reason string
}

func (e *MalformedSubmissionError) Error() string {
	return "malformed difficulty submission: " + e.Reason
}

// NonContiguousOrderError indicates stored difficulty rows whose order values
// do not form a contiguous 1..N sequence. This means the tree was partially
// written or corrupted and must be treated as a fatal consistency error.
type NonContiguousOrderError struct {
	Scope   string // "parent" or the parent difficulty's name
	Missing int    // the order slot with no matching row
	Total   int    // expected number of rows in the sibling group
}

func (e *NonContiguousOrderError) Error() string {
	if e.Scope == "parent" {
		return fmt.Sprintf("non-contiguous difficulty order: no parent difficulty with order %d of %d", e.Missing, e.Total)
	}
	return fmt.Sprintf("non-contiguous difficulty order: %q has no child with order %d of %d", e.Scope, e.Missing, e.Total)
}

// InvalidAssignmentError indicates a map's claimed difficulty that does not
// exist in the mod's configured tree at the correct nesting depth.
type InvalidAssignmentError struct {
	Claimed string
	Reason  string
}

func (e *InvalidAssignmentError) Error() string {
	return fmt.Sprintf("invalid map difficulty %s: %s", e.Claimed, e.Reason)
}
