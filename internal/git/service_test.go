package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chmouel/git-tree/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	base := []string{"-c", "user.name=Test", "-c", "user.email=test@example.com", "-c", "commit.gpgsign=false", "-c", "init.defaultBranch=main"}
	cmd := exec.Command("git", append(base, args...)...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// newRepo creates a repository with one commit holding tracked.txt and
// src/main.go.
func newRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	writeFile(t, dir, "tracked.txt", "one\ntwo\nthree\n")
	writeFile(t, dir, "src/main.go", "package main\n")
	writeFile(t, dir, ".gitignore", "*.log\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-q", "-m", "initial")
	return dir
}

func TestNewBackend(t *testing.T) {
	src, err := New("")
	require.NoError(t, err)
	assert.IsType(t, &Service{}, src)

	src, err = New("Go-Git")
	require.NoError(t, err)
	assert.IsType(t, &GoGit{}, src)

	src, err = New("gogit")
	require.NoError(t, err)
	assert.IsType(t, &GoGit{}, src)

	_, err = New("svn")
	require.ErrorIs(t, err, ErrUnknownBackend)
	assert.Contains(t, err.Error(), "git, go-git")
}

func TestRunGit(t *testing.T) {
	requireGit(t)
	service := NewService()
	ctx := context.Background()

	t.Run("version", func(t *testing.T) {
		out, err := service.RunGit(ctx, []string{"git", "--version"}, t.TempDir())
		require.NoError(t, err)
		assert.Contains(t, string(out), "git version")
	})

	t.Run("failure carries stderr", func(t *testing.T) {
		_, err := service.RunGit(ctx, []string{"git", "invalid-command-xyz"}, "")
		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.NotZero(t, cmdErr.ExitCode)
		assert.Equal(t, "git invalid-command-xyz", cmdErr.Command)
		assert.NotEmpty(t, cmdErr.Stderr)
	})

	t.Run("only git is allowed", func(t *testing.T) {
		_, err := service.RunGit(ctx, []string{"sh", "-c", "true"}, "")
		require.ErrorIs(t, err, ErrUnsupportedCommand)

		_, err = service.RunGit(ctx, nil, "")
		require.ErrorIs(t, err, ErrUnsupportedCommand)
	})
}

func TestRunGitMissingBinary(t *testing.T) {
	service := &Service{gitPath: filepath.Join(t.TempDir(), "no-such-git")}
	_, err := service.RunGit(context.Background(), []string{"git", "status"}, "")
	require.ErrorIs(t, err, ErrGitNotFound)
	assert.False(t, service.Available())
}

func TestAvailableUsesLookupPath(t *testing.T) {
	prev := LookupPath
	t.Cleanup(func() { LookupPath = prev })

	LookupPath = func(string) (string, error) { return "", errors.New("missing") }
	assert.False(t, NewService().Available())

	LookupPath = func(string) (string, error) { return "/usr/bin/git", nil }
	assert.True(t, NewService().Available())
}

func TestServiceRoot(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	service := NewService()
	dir := newRepo(t)

	t.Run("top of working tree", func(t *testing.T) {
		root, err := service.Root(ctx, dir, false)
		require.NoError(t, err)
		assert.True(t, samePath(root, dir))
	})

	t.Run("subdirectory without discovery", func(t *testing.T) {
		_, err := service.Root(ctx, filepath.Join(dir, "src"), false)
		require.ErrorIs(t, err, ErrNotRepository)
	})

	t.Run("subdirectory with discovery", func(t *testing.T) {
		root, err := service.Root(ctx, filepath.Join(dir, "src"), true)
		require.NoError(t, err)
		assert.True(t, samePath(root, dir))
	})

	t.Run("file with discovery", func(t *testing.T) {
		root, err := service.Root(ctx, filepath.Join(dir, "src", "main.go"), true)
		require.NoError(t, err)
		assert.True(t, samePath(root, dir))
	})

	t.Run("plain directory", func(t *testing.T) {
		_, err := service.Root(ctx, t.TempDir(), true)
		require.ErrorIs(t, err, ErrNotRepository)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := service.Root(ctx, filepath.Join(dir, "nope"), true)
		require.ErrorIs(t, err, ErrNotRepository)
	})
}

func TestServiceStatus(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	service := NewService()
	dir := newRepo(t)

	writeFile(t, dir, "tracked.txt", "one\nTWO\nthree\nfour\n")
	writeFile(t, dir, "src/util/new file.go", "package util\n")
	writeFile(t, dir, "debug.log", "noise\n")
	writeFile(t, dir, "staged.txt", "staged\n")
	runGit(t, dir, "add", "staged.txt")
	runGit(t, dir, "mv", "src/main.go", "src/app.go")

	entries, err := service.Status(ctx, dir, StatusOptions{})
	require.NoError(t, err)

	byPath := map[string]models.StatusEntry{}
	for _, e := range entries {
		byPath[e.Path] = e
	}
	assert.Equal(t, "-M", byPath["tracked.txt"].Status.Marker())
	assert.Equal(t, "??", byPath["src/util/new file.go"].Status.Marker())
	assert.Equal(t, "A-", byPath["staged.txt"].Status.Marker())
	assert.Equal(t, models.KindRenamed, byPath["src/app.go"].Status.Kind())
	assert.Equal(t, "src/main.go", byPath["src/app.go"].OrigPath)
	assert.NotContains(t, byPath, "debug.log")

	entries, err = service.Status(ctx, dir, StatusOptions{IncludeIgnored: true})
	require.NoError(t, err)
	var ignored []string
	for _, e := range entries {
		if e.Status.Kind() == models.KindIgnored {
			ignored = append(ignored, e.Path)
		}
	}
	assert.Equal(t, []string{"debug.log"}, ignored)
}

func TestServiceStatusCleanTree(t *testing.T) {
	requireGit(t)
	dir := newRepo(t)

	entries, err := NewService().Status(context.Background(), dir, StatusOptions{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestServiceStatusNotRepository(t *testing.T) {
	requireGit(t)
	_, err := NewService().Status(context.Background(), t.TempDir(), StatusOptions{})
	require.ErrorIs(t, err, ErrNotRepository)
}

func TestServiceSummary(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	service := NewService()
	dir := newRepo(t)

	stat, err := service.Summary(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, models.DiffStat{Branch: "main"}, *stat)

	writeFile(t, dir, "tracked.txt", "one\nTWO\nthree\nfour\n")
	require.NoError(t, os.Remove(filepath.Join(dir, "src", "main.go")))

	stat, err = service.Summary(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "main", stat.Branch)
	assert.Equal(t, 2, stat.FilesChanged)
	assert.Equal(t, 2, stat.Insertions)
	assert.Equal(t, 2, stat.Deletions)
}

func TestServiceSummaryNoCommits(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	runGit(t, dir, "init", "-q")

	_, err := NewService().Summary(context.Background(), dir)
	require.ErrorIs(t, err, ErrNoCommits)
}
