package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chmouel/git-tree/internal/buildinfo"
	"github.com/chmouel/git-tree/internal/git"
	"github.com/chmouel/git-tree/internal/log"
	urfavecli "github.com/urfave/cli/v3"
)

// Exit codes.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitNoRepository = 2
)

const defaultTargetPath = "."

// IO carries the streams the command reads and writes.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdIO returns the process streams.
func StdIO() IO {
	return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// NewCommand builds the git-tree command.
func NewCommand(streams IO) *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "git-tree",
		Usage:     "Show the changed and untracked files of a git working tree as a tree",
		ArgsUsage: "[path]",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Reader:    streams.In,
		Writer:    streams.Out,
		ErrWriter: streams.Err,
		// exit codes are mapped by Run
		ExitErrHandler: func(context.Context, *urfavecli.Command, error) {},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			return runTree(ctx, cmd, streams)
		},
	}
}

// Run executes git-tree with args (including the program name) and returns
// the process exit code.
func Run(ctx context.Context, args []string, streams IO) int {
	buildinfo.Enrich()
	defer func() {
		if err := log.Close(); err != nil {
			_, _ = fmt.Fprintf(streams.Err, "Error closing debug log: %v\n", err)
		}
	}()

	err := NewCommand(streams).Run(ctx, args)
	if err == nil {
		return ExitOK
	}
	_, _ = fmt.Fprintf(streams.Err, "Error: %v\n", err)
	return exitCode(err)
}

func exitCode(err error) int {
	var exitErr urfavecli.ExitCoder
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, git.ErrNotRepository):
		return ExitNoRepository
	case errors.As(err, &exitErr):
		return exitErr.ExitCode()
	default:
		return ExitFailure
	}
}

func runTree(ctx context.Context, cmd *urfavecli.Command, streams IO) error {
	if cmd.NArg() > 1 {
		return urfavecli.Exit(fmt.Sprintf("expected at most one path, got %d", cmd.NArg()), ExitFailure)
	}
	target := cmd.Args().First()
	if target == "" {
		target = defaultTargetPath
	}

	cfg, err := loadConfig(cmd, streams.Err)
	if err != nil {
		return err
	}

	r, err := newRunner(cfg, streams)
	if err != nil {
		return err
	}
	log.Printf("git-tree %s: path=%s backend=%s depth=%d", buildinfo.Version(), target, cfg.Backend, cfg.Depth)

	switch {
	case cmd.Bool("interactive"):
		return r.interactive(ctx, target, cmd.Bool("watch"))
	case cmd.Bool("watch"):
		return r.watch(ctx, target)
	default:
		return r.once(ctx, target)
	}
}
