package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath is returned when a status entry carries a path that cannot be
// placed in a tree.
var ErrInvalidPath = errors.New("invalid status path")

// StatusCode is a single porcelain status letter.
type StatusCode byte

// Porcelain status letters as printed by git status --porcelain=v2.
const (
	Unmodified  StatusCode = '.'
	Modified    StatusCode = 'M'
	TypeChanged StatusCode = 'T'
	Added       StatusCode = 'A'
	Deleted     StatusCode = 'D'
	Renamed     StatusCode = 'R'
	Copied      StatusCode = 'C'
	Unmerged    StatusCode = 'U'
	Untracked   StatusCode = '?'
	Ignored     StatusCode = '!'
)

// ParseStatusCode converts a porcelain letter, treating a space like '.'.
func ParseStatusCode(b byte) StatusCode {
	switch StatusCode(b) {
	case Modified, TypeChanged, Added, Deleted, Renamed, Copied, Unmerged, Untracked, Ignored:
		return StatusCode(b)
	default:
		return Unmodified
	}
}

// Kind classifies the change state of a file.
type Kind int

// Kinds, in the order they are checked by Status.Kind.
const (
	KindUnmodified Kind = iota
	KindConflicted
	KindUntracked
	KindIgnored
	KindModified
	KindAdded
	KindDeleted
	KindRenamed
	KindCopied
	KindTypeChanged
)

var kindNames = map[Kind]string{
	KindUnmodified:  "unmodified",
	KindConflicted:  "conflicted",
	KindUntracked:   "untracked",
	KindIgnored:     "ignored",
	KindModified:    "modified",
	KindAdded:       "added",
	KindDeleted:     "deleted",
	KindRenamed:     "renamed",
	KindCopied:      "copied",
	KindTypeChanged: "typechange",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Status holds the index (X) and worktree (Y) columns of a file status.
type Status struct {
	Index    StatusCode
	Worktree StatusCode
}

// ParseStatus parses a two letter XY code such as ".M", "A.", "??" or " M".
func ParseStatus(xy string) Status {
	st := Status{Index: Unmodified, Worktree: Unmodified}
	if len(xy) > 0 {
		st.Index = ParseStatusCode(xy[0])
	}
	if len(xy) > 1 {
		st.Worktree = ParseStatusCode(xy[1])
	}
	return st
}

// Untracked and Ignored are the statuses git reports for "?" and "!" lines.
var (
	StatusUntracked = Status{Index: Untracked, Worktree: Untracked}
	StatusIgnored   = Status{Index: Ignored, Worktree: Ignored}
)

// Kind returns the dominant change kind. Worktree changes win over index
// changes, except for renames and copies, which git only reports in the index
// column, so "RM" is a rename.
func (s Status) Kind() Kind {
	switch {
	case s.Index == Unmerged || s.Worktree == Unmerged:
		return KindConflicted
	case s.Index == Untracked || s.Worktree == Untracked:
		return KindUntracked
	case s.Index == Ignored || s.Worktree == Ignored:
		return KindIgnored
	case s.Index == Renamed || s.Index == Copied:
		return codeKind(s.Index)
	}
	if k := codeKind(s.Worktree); k != KindUnmodified {
		return k
	}
	return codeKind(s.Index)
}

func codeKind(c StatusCode) Kind {
	switch c {
	case Modified:
		return KindModified
	case Added:
		return KindAdded
	case Deleted:
		return KindDeleted
	case Renamed:
		return KindRenamed
	case Copied:
		return KindCopied
	case TypeChanged:
		return KindTypeChanged
	default:
		return KindUnmodified
	}
}

// Staged reports whether the index column carries a change.
func (s Status) Staged() bool {
	switch s.Index {
	case Unmodified, Untracked, Ignored:
		return false
	default:
		return true
	}
}

// WorktreeChanged reports whether the worktree column carries a change that
// is not yet in the index.
func (s Status) WorktreeChanged() bool {
	switch s.Worktree {
	case Unmodified, Untracked, Ignored:
		return false
	default:
		return true
	}
}

// Marker returns the two column marker shown in front of a file name, using
// '-' for an unmodified column.
func (s Status) Marker() string {
	return string([]byte{markerByte(s.Index), markerByte(s.Worktree)})
}

func markerByte(c StatusCode) byte {
	if c == Unmodified || c == 0 {
		return '-'
	}
	return byte(c)
}

// Label returns a human readable status, e.g. "modified".
func (s Status) Label() string {
	return s.Kind().String()
}

// StatusEntry is one file reported by the status query.
type StatusEntry struct {
	Path     string // slash separated, relative to the repository root
	Status   Status
	OrigPath string // source path for renames and copies
}

// Segments splits the entry path into its components.
func (e StatusEntry) Segments() []string {
	return strings.Split(e.Path, "/")
}

// Validate checks that the path is relative, non-empty and made of plain
// segments.
func (e StatusEntry) Validate() error {
	switch {
	case e.Path == "":
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	case strings.HasPrefix(e.Path, "/"):
		return fmt.Errorf("%w: %q is absolute", ErrInvalidPath, e.Path)
	case strings.HasSuffix(e.Path, "/"):
		return fmt.Errorf("%w: %q has a trailing separator", ErrInvalidPath, e.Path)
	}
	for _, seg := range e.Segments() {
		switch seg {
		case "":
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, e.Path)
		case ".", "..":
			return fmt.Errorf("%w: %q contains %q", ErrInvalidPath, e.Path, seg)
		}
	}
	return nil
}
