package difficulty

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLoader loads the global default difficulty tree from a YAML file.
// Mods that don't define custom difficulties validate their maps against
// this tree.
type DefaultLoader struct {
	mu   sync.RWMutex
	tree Tree
}

// defaultTreeFile is the YAML document shape.
type defaultTreeFile struct {
	Difficulties []defaultEntry `yaml:"difficulties"`
}

type defaultEntry struct {
	Name     string   `yaml:"name"`
	Children []string `yaml:"children"`
}

// NewDefaultLoader creates a loader preloaded with the built-in tree. A
// subsequent LoadFromFile replaces it.
func NewDefaultLoader() *DefaultLoader {
	return &DefaultLoader{tree: builtinDefaultTree()}
}

// LoadFromFile reads and validates a default tree definition. The file must
// parse as a valid submission: non-empty, no blank or duplicate names within
// a sibling scope.
func (l *DefaultLoader) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var file defaultTreeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	tree := make(Tree, 0, len(file.Difficulties))
	for _, e := range file.Difficulties {
		tree = append(tree, Entry{Name: e.Name, Children: e.Children})
	}

	if _, err := ParseSubmission(tree); err != nil {
		return fmt.Errorf("invalid default tree: %w", err)
	}

	l.mu.Lock()
	l.tree = tree
	l.mu.Unlock()

	slog.Info("default difficulty tree loaded", "path", path, "parents", len(tree))
	return nil
}

// Tree returns the current default tree.
func (l *DefaultLoader) Tree() Tree {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree
}

// builtinDefaultTree is the tree used when no file is configured.
func builtinDefaultTree() Tree {
	return Tree{
		{Name: "Beginner", Children: []string{"Low", "Mid", "High"}},
		{Name: "Intermediate", Children: []string{"Low", "Mid", "High"}},
		{Name: "Advanced", Children: []string{"Low", "Mid", "High"}},
		{Name: "Expert", Children: []string{"Low", "Mid", "High"}},
		{Name: "Grandmaster", Children: []string{"Low", "Mid", "High"}},
	}
}
