// Package log provides the debug log of git-tree. Messages are buffered until
// a destination is chosen with SetFile or SetWriter, and dropped when none is.
package log

import (
	"io"
	"log"
	"os"
	"sync"
)

// sink is the io.Writer behind the package logger.
type sink struct {
	mu      sync.Mutex
	out     io.Writer
	closer  io.Closer
	buffer  []byte
	discard bool
}

var (
	defaultSink = &sink{}
	logger      = log.New(defaultSink, "git-tree: ", log.LstdFlags|log.Lmicroseconds)
)

func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discard {
		return len(p), nil
	}
	if s.out != nil {
		n, err := s.out.Write(p)
		if f, ok := s.out.(*os.File); ok {
			_ = f.Sync()
		}
		return n, err
	}

	// p may be reused by the caller
	s.buffer = append(s.buffer, p...)
	return len(p), nil
}

// attach switches the destination and flushes anything buffered so far.
// Must be called with s.mu held.
func (s *sink) attach(w io.Writer, c io.Closer) {
	s.out = w
	s.closer = c
	s.discard = false
	if len(s.buffer) > 0 {
		_, _ = w.Write(s.buffer)
		s.buffer = nil
	}
}

func (s *sink) detach() error {
	var err error
	if s.closer != nil {
		err = s.closer.Close()
	}
	s.out = nil
	s.closer = nil
	return err
}

// SetFile appends debug output to path, creating it when needed. An empty
// path discards buffered and future messages.
func SetFile(path string) error {
	defaultSink.mu.Lock()
	defer defaultSink.mu.Unlock()

	_ = defaultSink.detach()

	if path == "" {
		defaultSink.discard = true
		defaultSink.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		defaultSink.discard = true
		defaultSink.buffer = nil
		return err
	}
	defaultSink.attach(f, f)
	return nil
}

// SetWriter sends debug output to w. The caller keeps ownership of w.
func SetWriter(w io.Writer) {
	defaultSink.mu.Lock()
	defer defaultSink.mu.Unlock()

	_ = defaultSink.detach()
	defaultSink.attach(w, nil)
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	logger.Printf(format, args...)
}

// Close closes the debug log file if one is open.
func Close() error {
	defaultSink.mu.Lock()
	defer defaultSink.mu.Unlock()

	return defaultSink.detach()
}
