package git

import "errors"

var (
	ErrNotRepository      = errors.New("no git repository found")
	ErrStatusFailed       = errors.New("git status failed")
	ErrNoCommits          = errors.New("repository has no commits yet")
	ErrUnsupportedCommand = errors.New("unsupported command")
	ErrGitNotFound        = errors.New("git executable not found")
	ErrUnknownBackend     = errors.New("unknown backend")
)
