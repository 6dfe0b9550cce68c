package difficulty

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmission(t *testing.T) {
	tree := Tree{
		{Name: "Easy"},
		{Name: "Medium", Children: []string{"Medium+"}},
		{Name: "Hard"},
	}

	parsed, err := ParseSubmission(tree)
	require.NoError(t, err)

	assert.Equal(t, []string{"Easy", "Medium", "Medium+", "Hard"}, parsed.FlatNames)
	assert.True(t, parsed.HasSubDifficulties)

	require.Len(t, parsed.Parents, 3)
	assert.Equal(t, ParentCreation{Name: "Easy", Order: 1}, parsed.Parents[0])
	assert.Equal(t, ParentCreation{
		Name:     "Medium",
		Order:    2,
		Children: []ChildCreation{{Name: "Medium+", Order: 1}},
	}, parsed.Parents[1])
	assert.Equal(t, ParentCreation{Name: "Hard", Order: 3}, parsed.Parents[2])
}

func TestParseSubmissionNoChildren(t *testing.T) {
	parsed, err := ParseSubmission(Tree{{Name: "Easy"}, {Name: "Hard"}})
	require.NoError(t, err)

	assert.False(t, parsed.HasSubDifficulties)
	assert.Equal(t, []string{"Easy", "Hard"}, parsed.FlatNames)
}

func TestParseSubmissionChildOrders(t *testing.T) {
	parsed, err := ParseSubmission(Tree{
		{Name: "Expert", Children: []string{"Low", "Mid", "High"}},
	})
	require.NoError(t, err)

	children := parsed.Parents[0].Children
	require.Len(t, children, 3)
	for i, c := range children {
		assert.Equal(t, i+1, c.Order, "child %q", c.Name)
	}
}

func TestParseSubmissionRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		tree Tree
	}{
		{"empty submission", Tree{}},
		{"blank parent name", Tree{{Name: "  "}}},
		{"blank child name", Tree{{Name: "Medium", Children: []string{""}}}},
		{"duplicate parent", Tree{{Name: "Easy"}, {Name: "Easy"}}},
		{"duplicate child in group", Tree{{Name: "Medium", Children: []string{"A", "A"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSubmission(tt.tree)
			var malformed *MalformedSubmissionError
			require.ErrorAs(t, err, &malformed)
		})
	}
}

// Duplicate names are only rejected within one sibling scope; the same child
// name may repeat under different parents.
func TestParseSubmissionAllowsRepeatedChildNamesAcrossParents(t *testing.T) {
	_, err := ParseSubmission(Tree{
		{Name: "Beginner", Children: []string{"Low", "High"}},
		{Name: "Expert", Children: []string{"Low", "High"}},
	})
	assert.NoError(t, err)
}

func TestTreeUnmarshalRejectsEmptyGroup(t *testing.T) {
	var tree Tree
	err := json.Unmarshal([]byte(`["Easy", []]`), &tree)

	var malformed *MalformedSubmissionError
	require.ErrorAs(t, err, &malformed)
}
