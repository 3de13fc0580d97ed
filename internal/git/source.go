package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/chmouel/git-tree/internal/models"
)

// Backend names accepted by New.
const (
	BackendGit   = "git"
	BackendGoGit = "go-git"
)

// StatusOptions tunes the status query.
type StatusOptions struct {
	IncludeIgnored bool
}

// Source answers the questions git-tree asks about a working tree.
type Source interface {
	// Root resolves dir to the top of its working tree. Without discover,
	// dir itself must be the top; with it, parent directories are searched
	// the way git does.
	Root(ctx context.Context, dir string, discover bool) (string, error)
	// Status lists changed, untracked and optionally ignored files below
	// root, with slash separated paths relative to root.
	Status(ctx context.Context, root string, opts StatusOptions) ([]models.StatusEntry, error)
	// Summary compares the HEAD tree with the working directory.
	Summary(ctx context.Context, root string) (*models.DiffStat, error)
}

var (
	_ Source = (*Service)(nil)
	_ Source = (*GoGit)(nil)
)

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendGit, BackendGoGit}
}

// New returns the Source for a backend name.
func New(backend string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendGit:
		return NewService(), nil
	case BackendGoGit, "gogit":
		return NewGoGit(), nil
	default:
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownBackend, backend, strings.Join(Backends(), ", "))
	}
}
