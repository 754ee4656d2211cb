package logging

import (
	"log/slog"
	"regexp"
)

// Log-stream scrub patterns. These mirror the shapes the policy gate
// redacts from requests; the log layer applies them independently so a
// component logging raw field values cannot leak what the gate would
// have removed.
var scrubPatterns = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`), "[SCRUBBED_EMAIL]"},
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[SCRUBBED_SSN]"},
}

// scrubAttr is a slog ReplaceAttr hook that rewrites string attribute
// values containing PII-looking substrings. Non-string values and
// group keys pass through untouched.
func scrubAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	s := a.Value.String()
	scrubbed := s
	for _, p := range scrubPatterns {
		scrubbed = p.pattern.ReplaceAllString(scrubbed, p.replacement)
	}
	if scrubbed != s {
		a.Value = slog.StringValue(scrubbed)
	}
	return a
}
