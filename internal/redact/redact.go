// Package redact strips secret-shaped strings from text before it leaves
// the CI environment. Everything stored in the memory database passes
// through Sanitize first.
package redact

import "regexp"

const placeholder = "[REDACTED]"

// secretPatterns matches credential formats seen in CI logs. Order does
// not matter; every pattern is applied to the full text.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-[A-Za-z0-9_-]{20,}`),        // OpenAI-style keys
	regexp.MustCompile(`m0-[A-Za-z0-9_-]{20,}`),        // memory service keys
	regexp.MustCompile(`ghp_[A-Za-z0-9]{36,}`),         // GitHub PATs
	regexp.MustCompile(`ghs_[A-Za-z0-9]{36,}`),         // GitHub App tokens
	regexp.MustCompile(`github_pat_[A-Za-z0-9_]{20,}`), // fine-grained PATs
	regexp.MustCompile(`Bearer\s+[A-Za-z0-9._-]{20,}`), // bearer tokens
	regexp.MustCompile(`https?://[^@\s]+:[^@\s]+@\S+`), // URLs with credentials
	regexp.MustCompile(`ANTHROPIC_API_KEY=\S+`),        // env var leaks
	regexp.MustCompile(`OPENAI_API_KEY=\S+`),
	regexp.MustCompile(`GOOGLE_API_KEY=\S+`),
	regexp.MustCompile(`PUSH_TOKEN=\S+`),
	regexp.MustCompile(`GITHUB_TOKEN=\S+`),
}

// Sanitize replaces anything that looks like a secret with [REDACTED].
func Sanitize(text string) string {
	for _, pattern := range secretPatterns {
		text = pattern.ReplaceAllString(text, placeholder)
	}
	return text
}
