// Package watch signals when the working trees git-tree renders change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/chmouel/git-tree/internal/log"
	"github.com/fsnotify/fsnotify"
)

// Debounce is the default quiet period before a burst of events is reported.
const Debounce = 300 * time.Millisecond

// Files inside .git whose changes alter the status output.
var gitStateFiles = map[string]bool{
	"index": true,
	"HEAD":  true,
}

// Watcher watches one or more working trees.
type Watcher struct {
	roots    []string
	debounce time.Duration
	events   chan struct{}
	done     chan struct{}
	paths    map[string]struct{}
	gitDirs  map[string]struct{}
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	stopOnce sync.Once
}

// New registers every directory below roots. Repository metadata directories
// are watched only at their top, for index and HEAD updates; a .git file
// (linked worktrees, submodules) is followed to the directory it names. A
// zero debounce uses Debounce.
func New(roots []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = Debounce
	}

	w := &Watcher{
		roots:    roots,
		debounce: debounce,
		events:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		paths:    make(map[string]struct{}),
		gitDirs:  make(map[string]struct{}),
		watcher:  fw,
	}
	for _, root := range roots {
		w.addWatchTree(root)
	}
	return w, nil
}

// Start runs the event loop until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

// Events delivers one value per debounced burst of changes. Bursts that
// arrive while a previous signal is pending are merged.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Watched returns the number of directories registered.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.paths)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			log.Printf("watch: %s", event)
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchNewDir(event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.signal()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch: error: %v", err)
		}
	}
}

func (w *Watcher) signal() {
	select {
	case <-w.done:
		return
	default:
	}
	select {
	case w.events <- struct{}{}:
	default:
	}
}

// relevant drops chmod-only events and changes inside repository metadata
// other than to the index and HEAD.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	dir := filepath.Dir(event.Name)
	if filepath.Base(dir) == ".git" || w.isMetaDir(dir) {
		return gitStateFiles[filepath.Base(event.Name)]
	}
	return true
}

func (w *Watcher) isMetaDir(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.gitDirs[path]
	return ok
}

func (w *Watcher) maybeWatchNewDir(path string) {
	if !w.isUnderRoot(path) || isGitDir(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.addWatchTree(path)
}

func (w *Watcher) isUnderRoot(path string) bool {
	for _, root := range w.roots {
		if root == "" {
			continue
		}
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func isGitDir(path string) bool {
	return strings.Contains(path+string(filepath.Separator), string(filepath.Separator)+".git"+string(filepath.Separator))
}

func (w *Watcher) addWatchDir(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.paths[path]; ok {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		log.Printf("watch: add failed for %s: %v", path, err)
		return
	}
	w.paths[path] = struct{}{}
}

func (w *Watcher) addMetaDir(path string) {
	w.addWatchDir(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gitDirs[path] = struct{}{}
}

func (w *Watcher) addWatchTree(root string) {
	if root == "" {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Name() == ".git" {
			if d.IsDir() {
				w.addMetaDir(path)
				return filepath.SkipDir
			}
			if gitDir, ok := readGitFile(path); ok {
				w.addMetaDir(gitDir)
			}
			return nil
		}
		if d.IsDir() {
			w.addWatchDir(path)
		}
		return nil
	})
}

// readGitFile resolves the "gitdir: <path>" line of a .git file. Relative
// paths are relative to the file's directory.
func readGitFile(path string) (string, bool) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return "", false
	}
	line, _, _ := strings.Cut(string(data), "\n")
	gitDir, ok := strings.CutPrefix(strings.TrimSpace(line), "gitdir:")
	if !ok {
		return "", false
	}
	gitDir = strings.TrimSpace(gitDir)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(filepath.Dir(path), gitDir)
	}
	gitDir = filepath.Clean(gitDir)
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		log.Printf("watch: %s points to missing %s", path, gitDir)
		return "", false
	}
	return gitDir, true
}
