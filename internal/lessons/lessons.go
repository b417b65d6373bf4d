// Package lessons mines Goose CI logs for learnings worth remembering:
// build errors worth avoiding, and patterns from runs that worked.
//
// Everything here is best-effort text mining over free-form logs. The
// regexes have known false positives and negatives (a quoted error
// message counts as an error mention, a file merely discussed counts as
// modified) and the output must never be treated as ground truth about
// the run, only as retrieval hints for future runs.
package lessons

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wgmesh/ci-tools/internal/memory"
	"github.com/wgmesh/ci-tools/internal/redact"
)

const (
	maxBuildErrors  = 10
	maxTestFailures = 10
	maxVetIssues    = 5
	maxFiles        = 10
	maxDecls        = 15
)

var (
	// Go build errors: any .go file with line:col: message.
	buildErrorRe = regexp.MustCompile(`\S+\.go:\d+:\d+: .+`)
	// Go test failures: "--- FAIL: TestFoo (0.00s)".
	testFailureRe = regexp.MustCompile(`--- FAIL: (\S+ \(.+?\))`)
	vetIssueRe    = regexp.MustCompile(`vet: .+`)
	// Files the agent touched, by verb + .go path.
	modifiedFileRe = regexp.MustCompile(`(?i)(?:create|modify|edit|write|update)\w*\s+(\S+\.go)\b`)
	// Exported type/function declarations, line-anchored to skip prose.
	declRe = regexp.MustCompile(`(?m)^(?:type|func)\s+([A-Z]\w+)`)
	// Only ": error" or "Error:" count, to avoid variable names and docs.
	errorMentionRe = regexp.MustCompile(`:\s*error\b|Error:`)
)

// BuildErrors extracts go build, test, and vet failure lines from a log.
func BuildErrors(logContent string) []string {
	var errors []string

	for _, m := range capped(buildErrorRe.FindAllString(logContent, -1), maxBuildErrors) {
		errors = append(errors, "Build error: "+redact.Sanitize(m))
	}
	for _, m := range capped(testFailureRe.FindAllStringSubmatch(logContent, -1), maxTestFailures) {
		errors = append(errors, "Test failure: "+m[1])
	}
	for _, m := range capped(vetIssueRe.FindAllString(logContent, -1), maxVetIssues) {
		errors = append(errors, "Vet issue: "+redact.Sanitize(m))
	}

	return errors
}

// SuccessPatterns extracts what a successful run touched and declared.
func SuccessPatterns(logContent string) []string {
	var patterns []string

	var files []string
	for _, m := range modifiedFileRe.FindAllStringSubmatch(logContent, -1) {
		files = append(files, m[1])
	}
	if files = capped(dedupe(files), maxFiles); len(files) > 0 {
		patterns = append(patterns, "Modified files: "+strings.Join(files, ", "))
	}

	var decls []string
	for _, m := range declRe.FindAllStringSubmatch(logContent, -1) {
		decls = append(decls, m[1])
	}
	if decls = capped(dedupe(decls), maxDecls); len(decls) > 0 {
		patterns = append(patterns, "Types/functions used: "+strings.Join(decls, ", "))
	}

	return patterns
}

// ErrorMentions counts explicit error markers in a log.
func ErrorMentions(logContent string) int {
	return len(errorMentionRe.FindAllString(logContent, -1))
}

// Entry is one memory to be stored for a run, as a message exchange plus
// metadata for later filtering.
type Entry struct {
	Messages []memory.Message
	Metadata map[string]string
}

// BuildEntries turns a run's log into memory entries. Failures contribute
// an error-pattern entry, successes a success-pattern entry, and every
// run a summary entry. All stored text is sanitized first.
func BuildEntries(issue, logContent, outcome string) []Entry {
	var entries []Entry

	switch outcome {
	case "failure":
		errors := BuildErrors(logContent)
		if len(errors) > 0 {
			errorText := redact.Sanitize(strings.Join(capped(errors, 5), "; "))
			entries = append(entries, Entry{
				Messages: []memory.Message{
					{
						Role: "user",
						Content: fmt.Sprintf("Goose failed implementing issue #%s. Errors: %s",
							issue, errorText),
					},
					{
						Role: "assistant",
						Content: fmt.Sprintf("Issue #%s implementation failed. "+
							"Key errors to avoid next time: %s. "+
							"Always read source files before using types.",
							issue, errorText),
					},
				},
				Metadata: map[string]string{
					"issue":   issue,
					"outcome": "failure",
					"type":    "error_pattern",
				},
			})
		}
	case "success":
		patterns := SuccessPatterns(logContent)
		if len(patterns) > 0 {
			patternText := redact.Sanitize(strings.Join(patterns, "; "))
			entries = append(entries, Entry{
				Messages: []memory.Message{
					{
						Role: "user",
						Content: fmt.Sprintf("Goose successfully implemented issue #%s. Patterns: %s",
							issue, patternText),
					},
					{
						Role: "assistant",
						Content: fmt.Sprintf("Issue #%s was implemented successfully. "+
							"Effective patterns: %s. "+
							"Reuse these approaches for similar tasks.",
							issue, patternText),
					},
				},
				Metadata: map[string]string{
					"issue":   issue,
					"outcome": "success",
					"type":    "success_pattern",
				},
			})
		}
	}

	entries = append(entries, Entry{
		Messages: []memory.Message{
			{
				Role: "user",
				Content: fmt.Sprintf("Run summary for issue #%s: outcome=%s, log_size=%d, error_mentions=%d",
					issue, outcome, len(logContent), ErrorMentions(logContent)),
			},
			{
				Role:    "assistant",
				Content: fmt.Sprintf("Recorded run for issue #%s with outcome '%s'.", issue, outcome),
			},
		},
		Metadata: map[string]string{
			"issue":   issue,
			"outcome": outcome,
			"type":    "run_summary",
		},
	})

	return entries
}

func capped[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func dedupe(s []string) []string {
	seen := make(map[string]bool, len(s))
	var out []string
	for _, v := range s {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
