// Package models defines the data objects shared across git-tree packages.
package models

import "fmt"

// DiffStat summarises the difference between HEAD and the working directory.
type DiffStat struct {
	Branch       string
	FilesChanged int
	Insertions   int
	Deletions    int
}

// String formats the stat the way the summary line prints it, without colours.
func (d DiffStat) String() string {
	return fmt.Sprintf("[%s] +%d -%d (%d)", d.Branch, d.Insertions, d.Deletions, d.FilesChanged)
}

// Counts tallies entries per kind, e.g. for the browser footer.
func Counts(entries []StatusEntry) map[Kind]int {
	counts := make(map[Kind]int)
	for _, e := range entries {
		counts[e.Status.Kind()]++
	}
	return counts
}
