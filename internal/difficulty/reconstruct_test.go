package difficulty

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestReconstruct(t *testing.T) {
	// Stored out of order on purpose
	rows := []Row{
		{ID: 3, Name: "Hard", Order: 3},
		{ID: 4, Name: "Medium+", Order: 1, ParentID: ptr(2)},
		{ID: 1, Name: "Easy", Order: 1},
		{ID: 2, Name: "Medium", Order: 2},
	}

	tree, err := Reconstruct(rows)
	require.NoError(t, err)

	want := Tree{
		{Name: "Easy"},
		{Name: "Medium", Children: []string{"Medium+"}},
		{Name: "Hard"},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstructEmpty(t *testing.T) {
	tree, err := Reconstruct(nil)
	require.NoError(t, err)
	assert.Empty(t, tree)
}

func TestReconstructParentOrderGap(t *testing.T) {
	rows := []Row{
		{ID: 1, Name: "Easy", Order: 1},
		{ID: 3, Name: "Hard", Order: 3},
		{ID: 4, Name: "Expert", Order: 4},
	}

	_, err := Reconstruct(rows)

	var gap *NonContiguousOrderError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, "parent", gap.Scope)
	assert.Equal(t, 2, gap.Missing)
	assert.Equal(t, 3, gap.Total)
}

func TestReconstructChildOrderGap(t *testing.T) {
	rows := []Row{
		{ID: 1, Name: "Medium", Order: 1},
		{ID: 2, Name: "A", Order: 1, ParentID: ptr(1)},
		{ID: 3, Name: "C", Order: 3, ParentID: ptr(1)},
	}

	_, err := Reconstruct(rows)

	var gap *NonContiguousOrderError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, "Medium", gap.Scope)
	assert.Equal(t, 2, gap.Missing)
}

// Round-trip: parse a submission, lay its creation records out as stored
// rows, reconstruct, and get the original back. IDs are synthetic; only
// names and order are part of the contract.
func TestRoundTrip(t *testing.T) {
	submissions := []Tree{
		{{Name: "Easy"}, {Name: "Medium", Children: []string{"Medium+"}}, {Name: "Hard"}},
		{{Name: "Solo"}},
		{
			{Name: "Beginner", Children: []string{"Low", "Mid", "High"}},
			{Name: "Expert", Children: []string{"Low", "Mid", "High"}},
			{Name: "Bonus"},
		},
	}

	for _, submission := range submissions {
		parsed, err := ParseSubmission(submission)
		require.NoError(t, err)

		var rows []Row
		var nextID int64
		for _, parent := range parsed.Parents {
			nextID++
			parentID := nextID
			rows = append(rows, Row{ID: parentID, Name: parent.Name, Order: parent.Order})
			for _, child := range parent.Children {
				nextID++
				pid := parentID
				rows = append(rows, Row{ID: nextID, Name: child.Name, Order: child.Order, ParentID: &pid})
			}
		}

		got, err := Reconstruct(rows)
		require.NoError(t, err)

		if diff := cmp.Diff(submission, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}

		assert.Equal(t, parsed.HasSubDifficulties, got.HasSubDifficulties())
		assert.Equal(t, parsed.FlatNames, got.FlatNames())
	}
}
