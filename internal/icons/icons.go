// Package icons maps file and directory names to Nerd Font glyphs.
package icons

import (
	"os"
	"time"

	devicons "github.com/epilande/go-devicons"
)

// fileInfo satisfies os.FileInfo for names that only exist in git's index,
// so devicons can look them up without touching the filesystem.
type fileInfo struct {
	name  string
	isDir bool
}

func (i fileInfo) Name() string { return i.name }

func (i fileInfo) Size() int64 { return 0 }

func (i fileInfo) Mode() os.FileMode {
	if i.isDir {
		return os.ModeDir | 0o755
	}
	return 0
}

func (i fileInfo) ModTime() time.Time { return time.Time{} }

func (i fileInfo) IsDir() bool { return i.isDir }

func (i fileInfo) Sys() any { return nil }

// Repository is shown in front of summary lines.
const Repository = ""

// ForName returns the icon for a file or directory name.
func ForName(name string, isDir bool) string {
	if name == "" {
		return ""
	}
	return devicons.IconForInfo(fileInfo{name: name, isDir: isDir}).Icon
}

// WithSpace returns the icon followed by a space, or "" for no icon.
func WithSpace(icon string) string {
	if icon == "" {
		return ""
	}
	return icon + " "
}
