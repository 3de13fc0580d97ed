// Package bootstrap wires the git-tree command line to the walker, the
// renderer and the interactive browser.
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/chmouel/git-tree/internal/git"
	"github.com/chmouel/git-tree/internal/theme"
	"github.com/chmouel/git-tree/internal/tree"
	urfavecli "github.com/urfave/cli/v3"
)

// globalFlags returns all flags of the git-tree command.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   "Show ignored files",
		},
		&urfavecli.IntFlag{
			Name:  "depth",
			Usage: "Recursively search for repositories up to `N` levels deep",
		},
		&urfavecli.BoolFlag{
			Name:    "summary",
			Aliases: []string{"s"},
			Usage:   "Print one line per repository: branch, insertions, deletions and files changed",
		},
		&urfavecli.StringFlag{
			Name:  "backend",
			Usage: fmt.Sprintf("Status backend (%s)", strings.Join(git.Backends(), ", ")),
		},
		&urfavecli.StringFlag{
			Name:  "format",
			Usage: fmt.Sprintf("Output format (%s)", strings.Join(tree.Formats(), ", ")),
		},
		&urfavecli.StringFlag{
			Name:  "color",
			Usage: "When to use colours (auto, always, never)",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   fmt.Sprintf("Colour theme (%s)", strings.Join(theme.AvailableThemes(), ", ")),
		},
		&urfavecli.BoolFlag{
			Name:  "icons",
			Usage: "Show Nerd Font icons",
		},
		&urfavecli.BoolFlag{
			Name:  "compact",
			Usage: "Join directories that only hold one directory",
		},
		&urfavecli.BoolFlag{
			Name:  "dirs-first",
			Usage: "List directories before files",
		},
		&urfavecli.IntFlag{
			Name:  "width",
			Usage: "Truncate lines to `N` columns (0: never, -1: terminal width)",
		},
		&urfavecli.BoolFlag{
			Name:    "interactive",
			Aliases: []string{"i"},
			Usage:   "Browse the tree interactively",
		},
		&urfavecli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Redraw when the working tree changes",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=gittree.key=value",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file (- for stderr)",
		},
	}
}
