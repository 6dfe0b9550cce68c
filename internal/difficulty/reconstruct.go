package difficulty

// Row is a persisted difficulty row as the reconstructor needs it. ParentID
// is nil for top-level difficulties.
type Row struct {
	ID       int64
	Name     string
	Order    int
	ParentID *int64
}

// Reconstruct rebuilds the ordered display tree from an unordered set of
// stored rows belonging to one mod (or the default set). Every order slot
// 1..N among parents, and 1..M within each child group, must be filled by
// exactly one row; a gap means the rows were partially written or corrupted
// and fails with NonContiguousOrderError rather than being skipped.
func Reconstruct(rows []Row) (Tree, error) {
	var parents []Row
	children := make(map[int64][]Row)

	for _, r := range rows {
		if r.ParentID == nil {
			parents = append(parents, r)
		} else {
			children[*r.ParentID] = append(children[*r.ParentID], r)
		}
	}

	tree := make(Tree, 0, len(parents))
	for order := 1; order <= len(parents); order++ {
		parent, ok := rowAtOrder(parents, order)
		if !ok {
			return nil, &NonContiguousOrderError{Scope: "parent", Missing: order, Total: len(parents)}
		}

		entry := Entry{Name: parent.Name}
		group := children[parent.ID]
		for childOrder := 1; childOrder <= len(group); childOrder++ {
			child, ok := rowAtOrder(group, childOrder)
			if !ok {
				return nil, &NonContiguousOrderError{Scope: parent.Name, Missing: childOrder, Total: len(group)}
			}
			entry.Children = append(entry.Children, child.Name)
		}

		tree = append(tree, entry)
	}

	return tree, nil
}

// rowAtOrder does a linear scan for the row with the given order. Sibling
// groups are small, so no index is kept.
func rowAtOrder(rows []Row, order int) (Row, bool) {
	for _, r := range rows {
		if r.Order == order {
			return r, true
		}
	}
	return Row{}, false
}
