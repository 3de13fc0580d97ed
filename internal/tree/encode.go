package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/ddddddO/gtree"
)

// Format is an output format for the tree.
type Format string

// Output formats.
const (
	FormatTree Format = "tree"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the accepted --format values.
func Formats() []string {
	return []string{string(FormatTree), string(FormatJSON), string(FormatYAML), string(FormatTOML)}
}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatTree:
		return FormatTree, nil
	case FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want one of %s)", s, strings.Join(Formats(), ", "))
	}
}

// Encode writes root to w in format. Node texts are the plain labels the text
// renderer prints, e.g. "-M main.go".
func Encode(w io.Writer, root *Node, format Format, opts Options) error {
	if format == FormatTree || format == "" {
		return Write(w, root, opts)
	}

	var option gtree.Option
	switch format {
	case FormatJSON:
		option = gtree.WithEncodeJSON()
	case FormatYAML:
		option = gtree.WithEncodeYAML()
	case FormatTOML:
		option = gtree.WithEncodeTOML()
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	plain := opts
	plain.Styles = nil
	plain.Icons = false
	plain.Width = 0
	r := renderer{opts: plain}

	label := root.Name
	if label == "" {
		label = "."
	}
	// siblings may share a label, e.g. a file "x" (-M) and a directory "-M x"
	groot := gtree.NewRoot(r.label(root, label), gtree.WithDuplicationAllowed())
	var add func(parent *gtree.Node, n *Node)
	add = func(parent *gtree.Node, n *Node) {
		for _, c := range n.Children(plain.Order) {
			add(parent.Add(r.label(c, c.Name)), c)
		}
	}
	add(groot, root)

	return gtree.OutputFromRoot(w, groot, option)
}
