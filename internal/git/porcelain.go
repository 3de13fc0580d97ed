package git

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chmouel/git-tree/internal/models"
)

// parsePorcelainV2 parses NUL separated `git status --porcelain=v2 -z`
// output. Record layouts:
//
//	1 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <path>
//	2 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <X><score> <path>\0<origPath>
//	u <XY> <sub> <m1> <m2> <m3> <mW> <h1> <h2> <h3> <path>
//	? <path>
//	! <path>
//
// Splitting with a field limit keeps paths containing spaces intact.
func parsePorcelainV2(raw string) ([]models.StatusEntry, error) {
	records := strings.Split(raw, "\x00")
	entries := make([]models.StatusEntry, 0, len(records))

	for i := 0; i < len(records); i++ {
		rec := records[i]
		if rec == "" {
			continue
		}

		var entry models.StatusEntry
		switch rec[0] {
		case '#':
			continue
		case '1':
			fields := strings.SplitN(rec, " ", 9)
			if len(fields) < 9 {
				return nil, fmt.Errorf("malformed changed entry %q", rec)
			}
			entry = models.StatusEntry{Path: fields[8], Status: models.ParseStatus(fields[1])}
		case '2':
			fields := strings.SplitN(rec, " ", 10)
			if len(fields) < 10 {
				return nil, fmt.Errorf("malformed rename entry %q", rec)
			}
			if i+1 >= len(records) {
				return nil, fmt.Errorf("rename entry %q without original path", rec)
			}
			i++
			entry = models.StatusEntry{Path: fields[9], Status: models.ParseStatus(fields[1]), OrigPath: records[i]}
		case 'u':
			fields := strings.SplitN(rec, " ", 11)
			if len(fields) < 11 {
				return nil, fmt.Errorf("malformed unmerged entry %q", rec)
			}
			entry = models.StatusEntry{Path: fields[10], Status: models.ParseStatus(fields[1])}
		case '?':
			entry = models.StatusEntry{Path: strings.TrimPrefix(rec, "? "), Status: models.StatusUntracked}
		case '!':
			// Whole ignored directories are reported once, with a trailing slash.
			path := strings.TrimSuffix(strings.TrimPrefix(rec, "! "), "/")
			entry = models.StatusEntry{Path: path, Status: models.StatusIgnored}
		default:
			return nil, fmt.Errorf("unknown status record %q", rec)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// parseNumstat sums `git diff --numstat` lines ("<added>\t<deleted>\t<path>").
// Binary files report "-" and count as a changed file with no lines.
func parseNumstat(raw string) (files, insertions, deletions int) {
	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 3 {
			continue
		}
		files++
		if n, err := strconv.Atoi(fields[0]); err == nil {
			insertions += n
		}
		if n, err := strconv.Atoi(fields[1]); err == nil {
			deletions += n
		}
	}
	return files, insertions, deletions
}
