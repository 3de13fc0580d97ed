package tree

// Row is one visible line of a flattened tree.
type Row struct {
	Path   string // slash separated path from the root, used as the collapse key
	Label  string // display name; "a/b" when compacted
	Depth  int
	Prefix string // guides drawn in front of the label
	Text   string // label as Render prints it, styles and icons included
	Node   *Node
}

// Flatten returns the visible rows below root, depth first. Children of
// paths marked in collapsed are skipped. The root itself is not a row.
func Flatten(root *Node, collapsed map[string]bool, opts Options) []Row {
	if root == nil {
		return nil
	}
	r := renderer{opts: opts}

	var rows []Row
	var visit func(n *Node, prefix, indent string, depth int)
	visit = func(n *Node, prefix, indent string, depth int) {
		children := n.Children(opts.Order)
		for i, c := range children {
			label := c.Name
			if opts.Compact {
				for c.IsDir() && c.Len() == 1 {
					only := c.Children(OrderInsertion)[0]
					if !only.IsDir() || !only.HasChildren() {
						break
					}
					label += "/" + only.Name
					c = only
				}
			}
			path := label
			if prefix != "" {
				path = prefix + "/" + label
			}

			branch, cont := guideBranch, guideContinue
			if i == len(children)-1 {
				branch, cont = guideLast, guideBlank
			}
			rows = append(rows, Row{
				Path:   path,
				Label:  label,
				Depth:  depth,
				Prefix: indent + branch,
				Text:   r.label(c, label),
				Node:   c,
			})
			if collapsed[path] {
				continue
			}
			visit(c, path, indent+cont, depth+1)
		}
	}
	visit(root, "", "", 0)
	return rows
}
