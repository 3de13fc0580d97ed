// Package tree groups flat status entries into a directory tree and renders
// it as text.
package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chmouel/git-tree/internal/models"
)

// Node is one path segment. File nodes carry an Entry, summary nodes a
// Summary; pure directory groupings carry neither.
type Node struct {
	Name    string
	Entry   *models.StatusEntry
	Summary *models.DiffStat

	children map[string]*Node
	order    []string // insertion order of children
}

// NewDir creates a directory node with no children.
func NewDir(name string) *Node {
	return &Node{Name: name}
}

// NewSummary creates a node that renders as a one line repository summary.
func NewSummary(name string, stat *models.DiffStat) *Node {
	return &Node{Name: name, Summary: stat}
}

// Build creates a tree labelled label from entries. All entries are validated
// before anything is inserted; when a path appears twice the later entry
// wins.
func Build(label string, entries []models.StatusEntry) (*Node, error) {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	root := NewDir(label)
	for i := range entries {
		root.insert(entries[i])
	}
	return root, nil
}

func (n *Node) insert(entry models.StatusEntry) {
	current := n
	for _, seg := range entry.Segments() {
		current = current.child(seg)
	}
	e := entry
	current.Entry = &e
}

// child returns the child named name, creating it when missing.
func (n *Node) child(name string) *Node {
	if c, ok := n.children[name]; ok {
		return c
	}
	c := NewDir(name)
	n.Add(c)
	return c
}

// Add attaches c under n, replacing any child with the same name.
func (n *Node) Add(c *Node) {
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	if _, ok := n.children[c.Name]; !ok {
		n.order = append(n.order, c.Name)
	}
	n.children[c.Name] = c
}

// Child returns the direct child named name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	return n.children[name]
}

// Lookup walks a slash separated path below n.
func (n *Node) Lookup(path string) *Node {
	current := n
	for _, seg := range strings.Split(path, "/") {
		current = current.Child(seg)
		if current == nil {
			return nil
		}
	}
	return current
}

// Len returns the number of direct children.
func (n *Node) Len() int {
	return len(n.order)
}

// IsDir reports whether the node is a pure directory grouping. A node can be
// both a file and a directory when git reports e.g. a deleted file "a" next
// to an untracked "a/b"; such a node is not a pure directory.
func (n *Node) IsDir() bool {
	return n.Entry == nil && n.Summary == nil
}

// HasChildren reports whether anything is nested below n.
func (n *Node) HasChildren() bool {
	return len(n.order) > 0
}

// Order selects how siblings are listed.
type Order int

// Sibling orders.
const (
	OrderLexical   Order = iota // byte-wise by name
	OrderDirsFirst              // directories before files, then by name
	OrderInsertion              // the order the status query reported them
)

// Children returns the children of n in the requested order.
func (n *Node) Children(order Order) []*Node {
	if n == nil || len(n.order) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(n.order))
	for _, name := range n.order {
		out = append(out, n.children[name])
	}
	switch order {
	case OrderInsertion:
	case OrderDirsFirst:
		sort.SliceStable(out, func(i, j int) bool {
			iDir, jDir := out[i].HasChildren(), out[j].HasChildren()
			if iDir != jDir {
				return iDir
			}
			return out[i].Name < out[j].Name
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Name < out[j].Name
		})
	}
	return out
}

// Entries collects the status entries below n, depth first in lexical order.
func (n *Node) Entries() []models.StatusEntry {
	var entries []models.StatusEntry
	n.walk(func(c *Node) {
		if c.Entry != nil {
			entries = append(entries, *c.Entry)
		}
	})
	return entries
}

// Paths returns the slash separated path of every file node below n.
func Paths(n *Node) []string {
	var paths []string
	var visit func(node *Node, prefix string)
	visit = func(node *Node, prefix string) {
		for _, c := range node.Children(OrderLexical) {
			p := c.Name
			if prefix != "" {
				p = prefix + "/" + c.Name
			}
			if c.Entry != nil {
				paths = append(paths, p)
			}
			visit(c, p)
		}
	}
	if n != nil {
		visit(n, "")
	}
	return paths
}

func (n *Node) walk(fn func(*Node)) {
	for _, c := range n.Children(OrderLexical) {
		fn(c)
		c.walk(fn)
	}
}
