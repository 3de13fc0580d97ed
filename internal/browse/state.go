package browse

import "github.com/chmouel/git-tree/internal/tree"

// State holds the flattened tree, the collapsed directories and the cursor.
type State struct {
	Root      *tree.Node
	Rows      []tree.Row
	Collapsed map[string]bool
	Index     int
	opts      tree.Options
}

// NewState creates a State showing root fully expanded.
func NewState(root *tree.Node, opts tree.Options) *State {
	s := &State{
		Root:      root,
		Collapsed: make(map[string]bool),
		opts:      opts,
	}
	s.RebuildFlat()
	return s
}

// RebuildFlat rebuilds the visible rows.
func (s *State) RebuildFlat() {
	if s.Collapsed == nil {
		s.Collapsed = make(map[string]bool)
	}
	s.Rows = tree.Flatten(s.Root, s.Collapsed, s.opts)
	s.ClampIndex()
}

// SetRoot swaps in a rebuilt tree, keeping collapsed directories and the
// selected path when they still exist.
func (s *State) SetRoot(root *tree.Node) {
	selected := s.SelectedPath()
	s.Root = root
	s.RebuildFlat()
	s.RestoreSelection(selected)
}

// Expandable reports whether the row at i has children to show or hide.
func (s *State) Expandable(i int) bool {
	return i >= 0 && i < len(s.Rows) && s.Rows[i].Node.HasChildren()
}

// ToggleCollapse toggles the selected directory.
func (s *State) ToggleCollapse() {
	s.setCollapsed(!s.Collapsed[s.SelectedPath()])
}

// Collapse hides the children of the selected directory. On a file or an
// already collapsed directory the cursor moves to the parent instead.
func (s *State) Collapse() {
	if len(s.Rows) == 0 {
		return
	}
	path := s.SelectedPath()
	if s.Expandable(s.Index) && !s.Collapsed[path] {
		s.setCollapsed(true)
		return
	}
	depth := s.Rows[s.Index].Depth
	for i := s.Index - 1; i >= 0; i-- {
		if s.Rows[i].Depth < depth {
			s.Index = i
			return
		}
	}
}

// Expand shows the children of the selected directory.
func (s *State) Expand() {
	s.setCollapsed(false)
}

func (s *State) setCollapsed(collapsed bool) {
	if !s.Expandable(s.Index) {
		return
	}
	path := s.SelectedPath()
	if collapsed {
		s.Collapsed[path] = true
	} else {
		delete(s.Collapsed, path)
	}
	s.RebuildFlat()
	s.RestoreSelection(path)
}

// SelectedPath returns the path of the currently selected row.
func (s *State) SelectedPath() string {
	if s.Index >= 0 && s.Index < len(s.Rows) {
		return s.Rows[s.Index].Path
	}
	return ""
}

// RestoreSelection sets Index based on the provided path if it exists.
func (s *State) RestoreSelection(path string) {
	if path == "" {
		return
	}
	for i, row := range s.Rows {
		if row.Path == path {
			s.Index = i
			return
		}
	}
}

// Move shifts the cursor by delta rows, clamped to the list.
func (s *State) Move(delta int) {
	s.Index += delta
	s.ClampIndex()
}

// ClampIndex ensures Index is within the valid range for the rows.
func (s *State) ClampIndex() {
	if s.Index < 0 {
		s.Index = 0
	}
	if len(s.Rows) > 0 && s.Index >= len(s.Rows) {
		s.Index = len(s.Rows) - 1
	}
	if len(s.Rows) == 0 {
		s.Index = 0
	}
}
