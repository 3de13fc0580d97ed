package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	log "github.com/chmouel/git-tree/internal/log"
	"github.com/chmouel/git-tree/internal/models"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// OpenFunc opens the repository at path; detect searches parent directories.
type OpenFunc func(path string, detect bool) (*gogit.Repository, error)

// GoGit reads status through go-git, without a git binary.
type GoGit struct {
	open OpenFunc
}

// NewGoGit returns a GoGit backend opening repositories from disk.
func NewGoGit() *GoGit {
	return NewGoGitWithOpener(func(path string, detect bool) (*gogit.Repository, error) {
		return gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
			DetectDotGit: detect,
			// linked worktrees keep refs and objects in the main repository
			EnableDotGitCommonDir: true,
		})
	})
}

// NewGoGitWithOpener returns a GoGit backend using open, e.g. to serve
// in-memory repositories.
func NewGoGitWithOpener(open OpenFunc) *GoGit {
	return &GoGit{open: open}
}

func (g *GoGit) worktree(path string, detect bool) (*gogit.Repository, *gogit.Worktree, error) {
	repo, err := g.open(path, detect)
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) || os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w at %q", ErrNotRepository, path)
		}
		return nil, nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return nil, nil, fmt.Errorf("%w at %q: bare repository", ErrNotRepository, path)
		}
		return nil, nil, err
	}
	return repo, wt, nil
}

// Root implements Source.
func (g *GoGit) Root(ctx context.Context, dir string, discover bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, wt, err := g.worktree(dir, discover)
	if err != nil {
		return "", err
	}
	return wt.Filesystem.Root(), nil
}

// Status implements Source. go-git does not report ignored files, so
// IncludeIgnored has no effect.
func (g *GoGit) Status(ctx context.Context, root string, opts StatusOptions) ([]models.StatusEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.IncludeIgnored {
		log.Printf("go-git backend: ignored files are not reported")
	}
	_, wt, err := g.worktree(root, false)
	if err != nil {
		return nil, err
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStatusFailed, err)
	}
	return statusEntries(status), nil
}

// statusEntries converts go-git's status map, sorted by path.
func statusEntries(status gogit.Status) []models.StatusEntry {
	paths := make([]string, 0, len(status))
	for path := range status {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	entries := make([]models.StatusEntry, 0, len(paths))
	for _, path := range paths {
		fs := status[path]
		if fs.Staging == gogit.Unmodified && fs.Worktree == gogit.Unmodified {
			continue
		}
		entry := models.StatusEntry{
			Path: path,
			Status: models.Status{
				Index:    statusCode(fs.Staging),
				Worktree: statusCode(fs.Worktree),
			},
		}
		if fs.Staging == gogit.Renamed || fs.Staging == gogit.Copied {
			entry.OrigPath = fs.Extra
		}
		entries = append(entries, entry)
	}
	return entries
}

func statusCode(c gogit.StatusCode) models.StatusCode {
	switch c {
	case gogit.Modified:
		return models.Modified
	case gogit.Added:
		return models.Added
	case gogit.Deleted:
		return models.Deleted
	case gogit.Renamed:
		return models.Renamed
	case gogit.Copied:
		return models.Copied
	case gogit.UpdatedButUnmerged:
		return models.Unmerged
	case gogit.Untracked:
		return models.Untracked
	default:
		return models.Unmodified
	}
}

// Summary implements Source by diffing each changed file's HEAD blob with
// its working directory content.
func (g *GoGit) Summary(ctx context.Context, root string) (*models.DiffStat, error) {
	repo, wt, err := g.worktree(root, false)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("%w at %q", ErrNoCommits, root)
		}
		return nil, err
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, err
	}
	headTree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	branch := head.Name().Short()
	if !head.Name().IsBranch() {
		branch = "HEAD"
	}
	stat := &models.DiffStat{Branch: branch}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStatusFailed, err)
	}
	for _, entry := range statusEntries(status) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.Status.Kind() == models.KindUntracked {
			continue
		}

		before, err := blobContents(headTree, entry.Path)
		if err != nil {
			return nil, err
		}
		after, err := util.ReadFile(wt.Filesystem, entry.Path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if before == string(after) {
			continue
		}

		insertions, deletions := countLines(diff.Do(before, string(after)))
		stat.FilesChanged++
		stat.Insertions += insertions
		stat.Deletions += deletions
	}
	return stat, nil
}

func blobContents(tree *object.Tree, path string) (string, error) {
	f, err := tree.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return "", nil
		}
		return "", err
	}
	return f.Contents()
}

// countLines counts inserted and deleted lines in a line mode diff.
func countLines(diffs []diffmatchpatch.Diff) (insertions, deletions int) {
	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")
		if d.Text != "" && !strings.HasSuffix(d.Text, "\n") {
			n++
		}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			insertions += n
		case diffmatchpatch.DiffDelete:
			deletions += n
		}
	}
	return insertions, deletions
}
