package memory

import (
	"fmt"
	"strings"
)

// FormatContext renders retrieved memories as a markdown block suitable
// for prepending to a Goose prompt. An empty slice yields an empty string
// so callers can write the context file unconditionally.
func FormatContext(memories []string) string {
	if len(memories) == 0 {
		return ""
	}

	lines := []string{
		"## Lessons from Previous Runs",
		"",
		"The following knowledge was accumulated from past Goose CI runs.",
		"Use these lessons to avoid repeating mistakes:",
		"",
	}
	for i, mem := range memories {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, mem))
	}
	lines = append(lines, "")

	return strings.Join(lines, "\n")
}

// Dedupe returns texts with duplicates removed, preserving first-seen
// order. Search results from overlapping queries commonly repeat.
func Dedupe(texts []string) []string {
	seen := make(map[string]bool, len(texts))
	var out []string
	for _, t := range texts {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
