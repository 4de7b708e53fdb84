package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeSummary compares two raw config snapshots line by line and returns
// a short human-readable summary for the reload notification, e.g.
// "3 lines added, 1 line removed". Identical inputs yield "no changes".
func ChangeSummary(original, modified string) string {
	if original == modified {
		return "no changes"
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 5 * time.Second

	origRunes, modRunes, lineArray := dmp.DiffLinesToRunes(original, modified)
	diffs := dmp.DiffMainRunes(origRunes, modRunes, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	added, removed := 0, 0
	for _, d := range diffs {
		n := lineCount(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += n
		case diffmatchpatch.DiffDelete:
			removed += n
		}
	}

	if added == 0 && removed == 0 {
		return "no changes"
	}

	var parts []string
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d %s added", added, plural(added, "line")))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("%d %s removed", removed, plural(removed, "line")))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// lineCount returns the number of *physical* lines in the snippet.
func lineCount(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++ // final line has no trailing newline
	}
	return n
}
