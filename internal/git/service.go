// Package git queries working tree status, either through the git binary or
// through go-git.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/chmouel/git-tree/internal/log"
	"github.com/chmouel/git-tree/internal/models"
)

// LookupPath is used to find executables in PATH. It's exposed as a package variable
// so tests can mock it and avoid depending on system binaries being installed.
var LookupPath = exec.LookPath

// Service runs the git binary.
type Service struct {
	gitPath string
}

// NewService constructs a Service using the git found in PATH.
func NewService() *Service {
	return &Service{gitPath: "git"}
}

// Available reports whether the git binary can be found.
func (s *Service) Available() bool {
	_, err := LookupPath(s.gitPath)
	return err == nil
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func (s *Service) prepareAllowedCommand(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no command provided", ErrUnsupportedCommand)
	}

	switch args[0] {
	case "git":
		// #nosec G204 -- arguments for git command come from internal logic and are not shell interpolated
		return exec.CommandContext(ctx, s.gitPath, args[1:]...), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedCommand, args[0])
	}
}

// RunGit executes a git command in cwd and returns its stdout. Failures carry
// the command and git's stderr.
func (s *Service) RunGit(ctx context.Context, args []string, cwd string) ([]byte, error) {
	command := strings.Join(args, " ")
	if command == "" {
		command = "<empty>"
	}
	s.debugf("run: %s (cwd=%s)", command, cwd)

	cmd, err := s.prepareAllowedCommand(ctx, args)
	if err != nil {
		s.debugf("error: %s (%v)", command, err)
		return nil, err
	}
	if cwd != "" {
		cmd.Dir = cwd
	}
	// Keep output stable regardless of the user's locale and pager settings.
	cmd.Env = append(os.Environ(), "LC_ALL=C", "GIT_PAGER=cat", "GIT_OPTIONAL_LOCKS=0")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail := strings.TrimSpace(stderr.String())
			if detail == "" {
				detail = fmt.Sprintf("exit %d", exitErr.ExitCode())
			}
			s.debugf("error: %s: %s", command, detail)
			return nil, &CommandError{Command: command, ExitCode: exitErr.ExitCode(), Stderr: detail}
		}
		s.debugf("error: command not found: %s", args[0])
		return nil, fmt.Errorf("%w: %v", ErrGitNotFound, err)
	}

	s.debugf("ok: %s", command)
	return output, nil
}

// CommandError describes a git invocation that exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Stderr)
}

// notARepository reports git's "fatal: not a git repository" failure.
func notARepository(err error) bool {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	return strings.Contains(strings.ToLower(cmdErr.Stderr), "not a git repository")
}

// Root implements Source.
func (s *Service) Root(ctx context.Context, dir string, discover bool) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w at %q: %v", ErrNotRepository, dir, err)
	}
	if !info.IsDir() {
		if !discover {
			return "", fmt.Errorf("%w at %q", ErrNotRepository, dir)
		}
		abs = filepath.Dir(abs)
	}

	out, err := s.RunGit(ctx, []string{"git", "rev-parse", "--show-toplevel"}, abs)
	if err != nil {
		if notARepository(err) {
			return "", fmt.Errorf("%w at %q", ErrNotRepository, dir)
		}
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			// e.g. inside .git or a bare repository
			return "", fmt.Errorf("%w at %q: %v", ErrNotRepository, dir, err)
		}
		return "", err
	}

	top := strings.TrimSpace(string(out))
	if top == "" {
		return "", fmt.Errorf("%w at %q", ErrNotRepository, dir)
	}
	top = filepath.FromSlash(top)
	if !discover && !samePath(top, abs) {
		return "", fmt.Errorf("%w at %q", ErrNotRepository, dir)
	}
	return top, nil
}

// samePath compares two directories after resolving symlinks, since git
// reports the physical path.
func samePath(a, b string) bool {
	if ra, err := filepath.EvalSymlinks(a); err == nil {
		a = ra
	}
	if rb, err := filepath.EvalSymlinks(b); err == nil {
		b = rb
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

// Status implements Source using git status --porcelain=v2.
func (s *Service) Status(ctx context.Context, root string, opts StatusOptions) ([]models.StatusEntry, error) {
	args := []string{"git", "status", "--porcelain=v2", "-z", "--untracked-files=all"}
	if opts.IncludeIgnored {
		args = append(args, "--ignored=traditional")
	}
	out, err := s.RunGit(ctx, args, root)
	if err != nil {
		if notARepository(err) {
			return nil, fmt.Errorf("%w at %q", ErrNotRepository, root)
		}
		return nil, fmt.Errorf("%w: %w", ErrStatusFailed, err)
	}

	entries, err := parsePorcelainV2(string(out))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStatusFailed, err)
	}
	return entries, nil
}

// Summary implements Source using git diff --numstat against HEAD.
func (s *Service) Summary(ctx context.Context, root string) (*models.DiffStat, error) {
	out, err := s.RunGit(ctx, []string{"git", "rev-parse", "--abbrev-ref", "HEAD"}, root)
	if err != nil {
		if notARepository(err) {
			return nil, fmt.Errorf("%w at %q", ErrNotRepository, root)
		}
		return nil, fmt.Errorf("%w: %w", ErrNoCommits, err)
	}
	stat := &models.DiffStat{Branch: strings.TrimSpace(string(out))}

	out, err = s.RunGit(ctx, []string{"git", "diff", "--numstat", "HEAD"}, root)
	if err != nil {
		return nil, err
	}
	stat.FilesChanged, stat.Insertions, stat.Deletions = parseNumstat(string(out))
	return stat, nil
}
