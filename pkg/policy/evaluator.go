package policy

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"helix-hq/warden/pkg/intake"
)

// Redaction kind names for the built-in matchers.
const (
	KindEmail = "email"
	KindSSN   = "ssn"
)

// Placeholder tokens substituted for detected sensitive substrings.
const (
	PlaceholderEmail = "[REDACTED_EMAIL]"
	PlaceholderSSN   = "[REDACTED_SSN]"
)

// scanFields are the free-text fields inspected by the evaluator.
var scanFields = []string{intake.FieldTitle, intake.FieldDescription}

// matcher pairs a redaction kind with its compiled pattern and the
// placeholder substituted for every occurrence.
type matcher struct {
	kind        string
	re          *regexp.Regexp
	placeholder string
}

// builtinMatchers returns the built-in matchers in priority order:
// email first, then national identification numbers.
func builtinMatchers() []matcher {
	return []matcher{
		{
			kind:        KindEmail,
			re:          regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`),
			placeholder: PlaceholderEmail,
		},
		{
			kind:        KindSSN,
			re:          regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
			placeholder: PlaceholderSSN,
		},
	}
}

// Pattern describes a custom redaction pattern loaded from the pattern
// file. Custom patterns run after the built-in matchers, in file order.
type Pattern struct {
	// Name is the redaction kind recorded when the pattern fires.
	Name string `yaml:"name"`

	// Regex is the pattern source, compiled with the standard regexp
	// package.
	Regex string `yaml:"regex"`

	// Placeholder replaces every occurrence. Defaults to "[REDACTED]".
	Placeholder string `yaml:"placeholder"`
}

// patternFile is the on-disk layout of the custom pattern file.
type patternFile struct {
	Patterns []Pattern `yaml:"patterns"`
}

// LoadPatternFile reads custom redaction patterns from a YAML file.
// Patterns with empty names or regexes that fail to compile are
// rejected; the file is accepted or refused as a whole.
func LoadPatternFile(path string) ([]Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file %q: %w", path, err)
	}

	var pf patternFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse pattern file %q: %w", path, err)
	}

	for i, p := range pf.Patterns {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("pattern %d in %q has no name", i, path)
		}
		if _, err := regexp.Compile(p.Regex); err != nil {
			return nil, fmt.Errorf("pattern %q in %q: %w", p.Name, path, err)
		}
	}

	return pf.Patterns, nil
}

// Evaluator is the policy gate. It is safe for concurrent use; custom
// patterns may be swapped at runtime via Reload while evaluations are
// in flight.
type Evaluator struct {
	builtin []matcher

	mu     sync.RWMutex
	custom []matcher
}

// NewEvaluator creates an evaluator with the built-in matchers and the
// given custom patterns. Patterns must have been validated (see
// LoadPatternFile); invalid regexes are skipped silently here.
func NewEvaluator(custom []Pattern) *Evaluator {
	e := &Evaluator{builtin: builtinMatchers()}
	e.setCustom(custom)
	return e
}

// Reload replaces the custom pattern set. Built-in matchers are never
// affected.
func (e *Evaluator) Reload(custom []Pattern) {
	e.setCustom(custom)
}

func (e *Evaluator) setCustom(patterns []Pattern) {
	compiled := make([]matcher, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			continue
		}
		placeholder := p.Placeholder
		if placeholder == "" {
			placeholder = "[REDACTED]"
		}
		compiled = append(compiled, matcher{kind: p.Name, re: re, placeholder: placeholder})
	}

	e.mu.Lock()
	e.custom = compiled
	e.mu.Unlock()
}

// matchers returns the active matcher list in priority order.
func (e *Evaluator) matchers() []matcher {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]matcher, 0, len(e.builtin)+len(e.custom))
	out = append(out, e.builtin...)
	out = append(out, e.custom...)
	return out
}

// Evaluate inspects a request and returns the gate decision together
// with a sanitized copy of the request. The input is never mutated.
func (e *Evaluator) Evaluate(req intake.Request) *Decision {
	active := e.matchers()

	sanitized := req.Clone()
	seen := make(map[string]bool)

	for _, field := range scanFields {
		text := sanitized.String(field)
		if text == "" {
			continue
		}
		for _, m := range active {
			if !m.re.MatchString(text) {
				continue
			}
			text = m.re.ReplaceAllString(text, m.placeholder)
			seen[m.kind] = true
		}
		sanitized[field] = text
	}

	// Report kinds in matcher priority order, each at most once,
	// independent of which scanned field matched first.
	redactions := make([]string, 0, len(seen))
	for _, m := range active {
		if seen[m.kind] {
			redactions = append(redactions, m.kind)
			seen[m.kind] = false
		}
	}

	piiDetected := len(redactions) > 0

	flags := make([]string, 0, 1)
	if piiDetected {
		flags = append(flags, FlagPIIDetected)
	}

	riskScore := RiskBaseline
	if piiDetected {
		riskScore = RiskPII
	}

	action := actionFor(riskScore, piiDetected)

	return &Decision{
		Action:           action,
		Allowed:          action == ActionAllow || action == ActionAllowWithRedaction,
		RequiresApproval: action == ActionRequireApproval,
		PIIDetected:      piiDetected,
		Redactions:       redactions,
		Flags:            flags,
		RiskScore:        riskScore,
		ConfidenceScore:  ConfidenceFixed,
		SanitizedRequest: sanitized,
	}
}
