// Package main is the entry point for the git-tree command.
package main

import (
	"context"
	"os"

	"github.com/chmouel/git-tree/internal/bootstrap"
	"github.com/chmouel/git-tree/internal/buildinfo"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	os.Exit(bootstrap.Run(context.Background(), os.Args, bootstrap.StdIO()))
}
