// Package walk turns a path into the tree git-tree renders: a single
// repository, or with a depth a forest of the repositories found below it.
package walk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chmouel/git-tree/internal/git"
	log "github.com/chmouel/git-tree/internal/log"
	"github.com/chmouel/git-tree/internal/tree"
)

// Options tunes a walk.
type Options struct {
	Depth          int  // directory levels searched for repositories
	Summary        bool // one summary node per repository instead of its files
	IncludeIgnored bool
}

// Result is the outcome of a walk.
type Result struct {
	Root *tree.Node
	// Repos lists the top directory of every repository in Root, in the
	// order they were visited.
	Repos []string
}

// Walker resolves paths against a git.Source.
type Walker struct {
	src  git.Source
	opts Options
}

// New creates a Walker.
func New(src git.Source, opts Options) *Walker {
	if opts.Depth < 0 {
		opts.Depth = 0
	}
	return &Walker{src: src, opts: opts}
}

// Walk builds the tree for path. The path itself is tried as a repository
// first, then searched up to Options.Depth levels; when neither finds
// anything, the repository containing path is used.
func (w *Walker) Walk(ctx context.Context, path string) (*Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	node, err := w.walkPath(ctx, abs, w.opts.Depth, res, true)
	if err != nil {
		return nil, err
	}
	if node != nil {
		res.Root = node
		return res, nil
	}

	return w.fallback(ctx, abs)
}

func (w *Walker) fallback(ctx context.Context, abs string) (*Result, error) {
	root, err := w.src.Root(ctx, abs, true)
	if err != nil {
		return nil, err
	}
	log.Printf("walk: %s belongs to %s", abs, root)

	node, err := w.repository(ctx, root, displayName(root))
	if err != nil {
		return nil, err
	}
	return &Result{Root: node, Repos: []string{root}}, nil
}

// walkPath returns nil when path holds no repository within depth. Errors
// from nested repositories are logged and the repository skipped; only the
// top level path reports them.
func (w *Walker) walkPath(ctx context.Context, path string, depth int, res *Result, top bool) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := w.src.Root(ctx, path, false)
	switch {
	case err == nil:
		node, err := w.repository(ctx, root, displayName(path))
		if err != nil {
			if top || errors.Is(err, context.Canceled) {
				return nil, err
			}
			log.Printf("walk: skipping %s: %v", path, err)
			return nil, nil
		}
		res.Repos = append(res.Repos, root)
		return node, nil
	case errors.Is(err, git.ErrNotRepository):
	default:
		if top {
			return nil, err
		}
		log.Printf("walk: skipping %s: %v", path, err)
		return nil, nil
	}

	if depth <= 0 {
		return nil, nil
	}
	return w.walkDirectory(ctx, path, depth, res)
}

func (w *Walker) walkDirectory(ctx context.Context, path string, depth int, res *Result) (*tree.Node, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		log.Printf("walk: cannot read %s: %v", path, err)
		return nil, nil
	}

	dir := tree.NewDir(displayName(path))
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == ".git" {
			continue
		}
		child, err := w.walkPath(ctx, filepath.Join(path, entry.Name()), depth-1, res, false)
		if err != nil {
			return nil, err
		}
		if child != nil {
			child.Name = entry.Name()
			dir.Add(child)
		}
	}

	if !dir.HasChildren() {
		return nil, nil
	}
	return dir, nil
}

// repository builds the node for the repository at root.
func (w *Walker) repository(ctx context.Context, root, name string) (*tree.Node, error) {
	if w.opts.Summary {
		stat, err := w.src.Summary(ctx, root)
		if err != nil {
			return nil, err
		}
		log.Printf("walk: %s %s", root, stat)
		return tree.NewSummary(name, stat), nil
	}

	entries, err := w.src.Status(ctx, root, git.StatusOptions{IncludeIgnored: w.opts.IncludeIgnored})
	if err != nil {
		return nil, err
	}
	node, err := tree.Build(name, entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", root, err)
	}
	return node, nil
}

func displayName(path string) string {
	name := filepath.Base(path)
	if name == string(filepath.Separator) || name == "." {
		return path
	}
	return name
}
