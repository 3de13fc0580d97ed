package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chmouel/git-tree/internal/config"
	"github.com/chmouel/git-tree/internal/git"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	urfavecli "github.com/urfave/cli/v3"
)

// isolate keeps the user's configuration out of the test.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(home, "gitconfig"))
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("NO_COLOR", "")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// newRepo creates an on-disk repository named name, with files committed.
func newRepo(t *testing.T, parent, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	if len(files) == 0 {
		return dir
	}

	wt, err := repo.Worktree()
	require.NoError(t, err)
	for file, content := range files {
		writeFile(t, dir, file, content)
		_, err := wt.Add(file)
		require.NoError(t, err)
	}
	_, err = wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), append([]string{"git-tree"}, args...), IO{
		In:  strings.NewReader(""),
		Out: &stdout,
		Err: &stderr,
	})
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func expected(s string) string {
	return strings.TrimPrefix(dedent.Dedent(s), "\n")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, exitCode(nil))
	assert.Equal(t, ExitNoRepository, exitCode(fmt.Errorf("walk: %w", git.ErrNotRepository)))
	assert.Equal(t, 7, exitCode(urfavecli.Exit("custom", 7)))
	assert.Equal(t, ExitFailure, exitCode(errors.New("boom")))
}

func TestRunVersionAndHelp(t *testing.T) {
	isolate(t)

	res := run(t, "--version")
	assert.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "git-tree")

	res = run(t, "--help")
	assert.Equal(t, ExitOK, res.code)
	for _, flag := range []string{"--all", "--depth", "--summary", "--backend", "--format", "--interactive", "--watch", "--config"} {
		assert.Contains(t, res.stdout, flag)
	}
}

func TestRunRendersRepository(t *testing.T) {
	isolate(t)
	dir := newRepo(t, t.TempDir(), "project", map[string]string{"README.md": "hello\n"})
	writeFile(t, dir, "README.md", "changed\n")
	writeFile(t, dir, "src/main.go", "package main\n")

	res := run(t, "--backend", "go-git", "--color", "never", dir)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, expected(`
		project
		├── -M README.md
		└── src
		    └── ?? main.go
	`), res.stdout)
}

func TestRunCleanRepository(t *testing.T) {
	isolate(t)
	dir := newRepo(t, t.TempDir(), "clean", map[string]string{"a.txt": "a\n"})

	res := run(t, "--backend", "go-git", dir)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "clean\n", res.stdout)
}

func TestRunNotRepository(t *testing.T) {
	isolate(t)

	res := run(t, "--backend", "go-git", t.TempDir())
	assert.Equal(t, ExitNoRepository, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Error: ")
	assert.Contains(t, res.stderr, git.ErrNotRepository.Error())
}

func TestRunDepthSummary(t *testing.T) {
	isolate(t)
	base := filepath.Join(t.TempDir(), "code")
	alpha := newRepo(t, base, "alpha", map[string]string{"a.txt": "one\ntwo\n"})
	newRepo(t, filepath.Join(base, "group"), "beta", map[string]string{"b.txt": "b\n"})
	require.NoError(t, os.MkdirAll(filepath.Join(base, "empty"), 0o750))
	writeFile(t, alpha, "a.txt", "one\nTWO\n")

	res := run(t, "--backend", "go-git", "--depth", "2", "-s", base)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, expected(`
		code
		├── alpha [master] +1 -1 (1)
		└── group
		    └── beta [master] +0 -0 (0)
	`), res.stdout)
}

func TestRunFormats(t *testing.T) {
	isolate(t)
	dir := newRepo(t, t.TempDir(), "project", nil)
	writeFile(t, dir, "src/main.go", "package main\n")

	res := run(t, "--backend", "go-git", "--format", "json", dir)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.True(t, json.Valid([]byte(res.stdout)), res.stdout)
	assert.Contains(t, res.stdout, "?? main.go")

	res = run(t, "--backend", "go-git", "-C", "gittree.format=yaml", dir)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "?? main.go")
	assert.NotContains(t, res.stdout, "└──")
}

func TestRunConfigFileAndFlagPrecedence(t *testing.T) {
	isolate(t)
	dir := newRepo(t, t.TempDir(), "project", nil)
	writeFile(t, dir, "a/b/c.txt", "x\n")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, filepath.Dir(configPath), "config.yaml", "backend: go-git\ncompact: true\n")

	res := run(t, "--config-file", configPath, dir)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, expected(`
		project
		└── a/b
		    └── ?? c.txt
	`), res.stdout)

	res = run(t, "--config-file", configPath, "--compact=false", dir)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "└── a\n")
}

func TestRunDebugLog(t *testing.T) {
	isolate(t)
	dir := newRepo(t, t.TempDir(), "project", nil)
	logPath := filepath.Join(t.TempDir(), "debug.log")

	res := run(t, "--backend", "go-git", "--debug-log", logPath, dir)
	require.Equal(t, ExitOK, res.code, res.stderr)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend=go-git")
}

func TestRunDebugLogToStderr(t *testing.T) {
	isolate(t)
	dir := newRepo(t, t.TempDir(), "project", nil)

	res := run(t, "--backend", "go-git", "--debug-log", "-", dir)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stderr, "backend=go-git")
	assert.Equal(t, "project\n", res.stdout)
}

func TestRunInvalidInput(t *testing.T) {
	isolate(t)
	dir := newRepo(t, t.TempDir(), "project", nil)

	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"color", []string{"--color", "sometimes", dir}, "invalid color mode"},
		{"format", []string{"--format", "xml", dir}, "unknown format"},
		{"backend", []string{"--backend", "svn", dir}, "unknown backend"},
		{"theme", []string{"--theme", "neon", dir}, "unknown theme"},
		{"override", []string{"-C", "theme=nord", dir}, "config override"},
		{"two paths", []string{dir, dir}, "at most one path"},
		{"interactive without terminal", []string{"--backend", "go-git", "-i", dir}, "needs a terminal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args...)
			assert.Equal(t, ExitFailure, res.code)
			assert.Contains(t, res.stderr, tt.errMsg)
			assert.Empty(t, res.stdout)
		})
	}
}

func TestNewStyles(t *testing.T) {
	cfg := config.DefaultConfig()
	var out bytes.Buffer

	cfg.Color = config.ColorNever
	assert.False(t, newStyles(cfg, &out, true).Enabled())

	cfg.Color = config.ColorAuto
	assert.False(t, newStyles(cfg, &out, false).Enabled())

	cfg.Color = config.ColorAlways
	styles := newStyles(cfg, &out, false)
	assert.True(t, styles.Enabled())
	assert.Contains(t, styles.Dir("src"), "\x1b[")
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchRedraws(t *testing.T) {
	isolate(t)
	dir := newRepo(t, t.TempDir(), "project", nil)
	writeFile(t, dir, "first.txt", "1\n")

	cfg := config.DefaultConfig()
	cfg.Backend = git.BackendGoGit
	var out syncBuffer
	r, err := newRunner(cfg, IO{Out: &out, Err: &out})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.watch(ctx, dir) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "first.txt")
	}, 3*time.Second, 20*time.Millisecond)

	writeFile(t, dir, "second.txt", "2\n")
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "second.txt")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}
