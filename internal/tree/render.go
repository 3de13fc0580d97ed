package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/chmouel/git-tree/internal/icons"
	"github.com/chmouel/git-tree/internal/theme"
	"github.com/muesli/reflow/truncate"
)

// Tree guides. Every child's first line gets the branch guide, the lines
// below it the matching continuation.
const (
	guideBranch   = "├── "
	guideLast     = "└── "
	guideContinue = "│   "
	guideBlank    = "    "
)

// Ellipsis ends lines cut by Options.Width.
const Ellipsis = "…"

// Options controls rendering.
type Options struct {
	Order   Order
	Compact bool          // join single-child directory chains into "a/b/c"
	Icons   bool          // prefix names with Nerd Font icons
	Width   int           // truncate lines to this many cells; 0 disables
	Styles  *theme.Styles // nil renders plain text
}

// Render formats the tree rooted at root. The root label is the first line
// (omitted when empty); the result ends with a newline unless it is empty.
func Render(root *Node, opts Options) string {
	lines := Lines(root, opts)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Write renders root to w.
func Write(w io.Writer, root *Node, opts Options) error {
	_, err := io.WriteString(w, Render(root, opts))
	return err
}

// Lines returns the rendered lines without trailing newlines.
func Lines(root *Node, opts Options) []string {
	if root == nil {
		return nil
	}
	r := renderer{opts: opts}

	var lines []string
	if root.Name != "" {
		lines = r.lines(root, false)
	} else {
		lines = r.children(root)
	}

	if opts.Width > 0 {
		for i, l := range lines {
			lines[i] = truncate.StringWithTail(l, uint(opts.Width), Ellipsis)
		}
	}
	return lines
}

type renderer struct {
	opts Options
}

func (r renderer) lines(n *Node, compact bool) []string {
	name := n.Name
	if compact {
		for n.IsDir() && n.Len() == 1 {
			only := n.Children(OrderInsertion)[0]
			if !only.IsDir() || !only.HasChildren() {
				break
			}
			name += "/" + only.Name
			n = only
		}
	}

	return append([]string{r.label(n, name)}, r.children(n)...)
}

func (r renderer) children(n *Node) []string {
	children := n.Children(r.opts.Order)
	var out []string
	for i, c := range children {
		branch, cont := guideBranch, guideContinue
		if i == len(children)-1 {
			branch, cont = guideLast, guideBlank
		}
		sub := r.lines(c, r.opts.Compact)
		out = append(out, branch+sub[0])
		for _, l := range sub[1:] {
			out = append(out, cont+l)
		}
	}
	return out
}

func (r renderer) label(n *Node, name string) string {
	s := r.opts.Styles
	switch {
	case n.Summary != nil:
		return fmt.Sprintf("%s%s %s %s %s (%s)",
			r.icon(icons.Repository),
			name,
			s.BranchName("["+n.Summary.Branch+"]"),
			s.InsertionCount(fmt.Sprintf("+%d", n.Summary.Insertions)),
			s.DeletionCount(fmt.Sprintf("-%d", n.Summary.Deletions)),
			s.FileCount(fmt.Sprintf("%d", n.Summary.FilesChanged)),
		)
	case n.Entry != nil:
		return s.Marker(n.Entry.Status.Marker()) + " " +
			r.icon(icons.ForName(n.Name, false)) +
			s.Name(name, n.Entry.Status)
	default:
		return r.icon(icons.ForName(n.Name, true)) + s.Dir(name)
	}
}

func (r renderer) icon(icon string) string {
	if !r.opts.Icons {
		return ""
	}
	return icons.WithSpace(icon)
}
