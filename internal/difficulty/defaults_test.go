package difficulty

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTreeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "difficulties.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write tree file: %v", err)
	}
	return path
}

func TestDefaultLoaderBuiltin(t *testing.T) {
	loader := NewDefaultLoader()

	tree := loader.Tree()
	if len(tree) == 0 {
		t.Fatal("expected a non-empty built-in tree")
	}
	if !tree.HasSubDifficulties() {
		t.Error("built-in tree should have sub-difficulties")
	}
	if _, err := ParseSubmission(tree); err != nil {
		t.Errorf("built-in tree should be a valid submission: %v", err)
	}
}

func TestDefaultLoaderLoadFromFile(t *testing.T) {
	path := writeTreeFile(t, `
difficulties:
  - name: Easy
  - name: Medium
    children:
      - Medium+
      - Medium++
  - name: Hard
`)

	loader := NewDefaultLoader()
	if err := loader.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	tree := loader.Tree()
	if len(tree) != 3 {
		t.Fatalf("expected 3 parents, got %d", len(tree))
	}
	if tree[1].Name != "Medium" || len(tree[1].Children) != 2 {
		t.Errorf("unexpected second entry: %+v", tree[1])
	}
}

func TestDefaultLoaderRejectsInvalidTree(t *testing.T) {
	path := writeTreeFile(t, `
difficulties:
  - name: Easy
  - name: Easy
`)

	loader := NewDefaultLoader()
	if err := loader.LoadFromFile(path); err == nil {
		t.Fatal("expected error for duplicate parent names")
	}

	// A failed load keeps the previous tree
	if len(loader.Tree()) == 0 {
		t.Error("previous tree should survive a failed load")
	}
}

func TestDefaultLoaderMissingFile(t *testing.T) {
	loader := NewDefaultLoader()
	if err := loader.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
