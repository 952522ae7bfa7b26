package adapter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	m "stitch.dev/pkg/stitch/internal/model"
)

// ErrOutsideWorkspace indicates a path escaping the workspace root.
var ErrOutsideWorkspace = errors.New("path is outside the workspace")

// WorkspaceGuard confines file operations to a single root directory. Any
// path resolving outside the root is rejected before it reaches the mutator.
type WorkspaceGuard struct {
	root string
}

// NewWorkspaceGuard constructs a guard for the given root directory.
func NewWorkspaceGuard(root m.Path) (*WorkspaceGuard, error) {
	abs, err := filepath.Abs(string(root))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	return &WorkspaceGuard{root: abs}, nil
}

// Root returns the absolute workspace root.
func (g *WorkspaceGuard) Root() m.Path {
	return m.Path(g.root)
}

// Resolve returns the absolute form of path if it lies inside the workspace.
// Relative paths are resolved against the workspace root.
func (g *WorkspaceGuard) Resolve(path m.Path) (m.Path, error) {
	p := string(path)
	if !filepath.IsAbs(p) {
		p = filepath.Join(g.root, p)
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	rel, err := filepath.Rel(g.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is not under %s", ErrOutsideWorkspace, abs, g.root)
	}

	return m.Path(abs), nil
}
