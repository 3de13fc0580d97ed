package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/git-tree/internal/browse"
	"github.com/chmouel/git-tree/internal/config"
	"github.com/chmouel/git-tree/internal/git"
	"github.com/chmouel/git-tree/internal/log"
	"github.com/chmouel/git-tree/internal/theme"
	"github.com/chmouel/git-tree/internal/tree"
	"github.com/chmouel/git-tree/internal/walk"
	"github.com/chmouel/git-tree/internal/watch"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when interactive mode is asked for without a
// terminal on stdout.
var ErrNotTerminal = errors.New("interactive mode needs a terminal")

type runner struct {
	streams IO
	walker  *walk.Walker
	format  tree.Format
	opts    tree.Options
	tty     bool
}

func newRunner(cfg *config.AppConfig, streams IO) (*runner, error) {
	src, err := git.New(cfg.Backend)
	if err != nil {
		return nil, err
	}
	if svc, ok := src.(*git.Service); ok && !svc.Available() {
		return nil, fmt.Errorf("%w (try --backend %s)", git.ErrGitNotFound, git.BackendGoGit)
	}
	format, err := tree.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	fd, tty := terminalFD(streams.Out)
	opts := tree.Options{
		Compact: cfg.Compact,
		Icons:   cfg.ShowIcons,
		Width:   cfg.Width,
		Styles:  newStyles(cfg, streams.Out, tty),
	}
	if cfg.DirsFirst {
		opts.Order = tree.OrderDirsFirst
	}
	if cfg.Width < 0 {
		opts.Width = 0
		if tty {
			if w, _, err := term.GetSize(fd); err == nil {
				opts.Width = w
			}
		}
	}

	return &runner{
		streams: streams,
		walker: walk.New(src, walk.Options{
			Depth:          cfg.Depth,
			Summary:        cfg.Summary,
			IncludeIgnored: cfg.ShowIgnored,
		}),
		format: format,
		opts:   opts,
		tty:    tty,
	}, nil
}

func terminalFD(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return -1, false
	}
	fd := int(f.Fd()) // #nosec G115 -- file descriptors fit in an int
	return fd, term.IsTerminal(fd)
}

// newStyles picks plain or coloured output. In auto mode colours follow the
// terminal, NO_COLOR and CLICOLOR_FORCE as detected by termenv.
func newStyles(cfg *config.AppConfig, out io.Writer, tty bool) *theme.Styles {
	switch cfg.Color {
	case config.ColorNever:
		return theme.Plain()
	case config.ColorAuto:
		if !tty {
			return theme.Plain()
		}
	}

	renderer := lipgloss.NewRenderer(out)
	if cfg.Color == config.ColorAlways && renderer.ColorProfile() == termenv.Ascii {
		renderer.SetColorProfile(termenv.ANSI256)
	}
	return theme.NewStyles(theme.GetTheme(theme.Normalize(cfg.Theme)), renderer)
}

func (r *runner) render(res *walk.Result) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := tree.Encode(&buf, res.Root, r.format, r.opts); err != nil {
		return nil, err
	}
	return &buf, nil
}

// once prints the tree. Nothing is written when building it fails.
func (r *runner) once(ctx context.Context, target string) error {
	res, err := r.walker.Walk(ctx, target)
	if err != nil {
		return err
	}
	buf, err := r.render(res)
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(r.streams.Out)
	return err
}

// watch redraws the tree on every change below the repositories found until
// ctx is cancelled or the process is interrupted.
func (r *runner) watch(ctx context.Context, target string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := r.walker.Walk(ctx, target)
	if err != nil {
		return err
	}
	w, err := watch.New(res.Repos, 0)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	w.Start(ctx)

	out := termenv.NewOutput(r.streams.Out)
	draw := func(res *walk.Result) error {
		buf, err := r.render(res)
		if err != nil {
			return err
		}
		if r.tty {
			out.ClearScreen()
		}
		_, err = buf.WriteTo(r.streams.Out)
		return err
	}
	if err := draw(res); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Events():
			res, err := r.walker.Walk(ctx, target)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Printf("watch: rebuild failed: %v", err)
				_, _ = fmt.Fprintf(r.streams.Err, "Error: %v\n", err)
				continue
			}
			if err := draw(res); err != nil {
				return err
			}
		}
	}
}

// interactive opens the browser; with follow the tree reloads on changes.
func (r *runner) interactive(ctx context.Context, target string, follow bool) error {
	if !r.tty {
		return ErrNotTerminal
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := r.walker.Walk(ctx, target)
	if err != nil {
		return err
	}

	treeOpts := r.opts
	treeOpts.Width = 0
	opts := browse.Options{
		Tree: treeOpts,
		Reload: func(ctx context.Context) (*tree.Node, error) {
			res, err := r.walker.Walk(ctx, target)
			if err != nil {
				return nil, err
			}
			return res.Root, nil
		},
	}
	if follow {
		w, err := watch.New(res.Repos, 0)
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()
		w.Start(ctx)
		opts.Changes = w.Events()
	}

	return browse.Run(ctx, res.Root, opts, r.streams.In, r.streams.Out)
}
