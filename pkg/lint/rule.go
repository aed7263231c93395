// Package lint provides the regex rule engine for gomdrules: rules, the
// ordered rule set, and the scanner that turns text into violations.
package lint

import (
	"errors"
	"regexp"
	"strings"
)

// caseInsensitiveFlag is prepended to patterns that ignore case.
const caseInsensitiveFlag = "(?i)"

// RuleOptions carries the optional settings of a Rule.
type RuleOptions struct {
	// Suggestion is the replacement text shown to the user.
	Suggestion string

	// Keyword names the text that triggered the rule.
	Keyword string

	// CaseSensitive disables case-insensitive matching.
	CaseSensitive bool

	// Justification explains why the rule exists.
	Justification string
}

// Match is the byte range of a single pattern match.
type Match struct {
	Start int
	End   int
}

// Rule is a single named pattern with optional remediation metadata.
// A Rule is immutable after construction and safe for concurrent use.
type Rule struct {
	name    string
	pattern string
	re      *regexp.Regexp
	opts    RuleOptions
}

// NewRule compiles pattern into a Rule.
//
// Matching ignores case unless opts.CaseSensitive is set. A pattern that does
// not compile yields a *ConfigurationError of kind KindInvalidPattern wrapping
// the compiler error.
func NewRule(name, pattern string, opts RuleOptions) (*Rule, error) {
	if strings.TrimSpace(name) == "" {
		err := newConfigError(KindMalformed, errors.New("rule name is required"))
		return nil, err
	}

	source := pattern
	if !opts.CaseSensitive {
		source = caseInsensitiveFlag + pattern
	}

	re, err := regexp.Compile(source)
	if err != nil {
		cfgErr := newConfigError(KindInvalidPattern, err)
		cfgErr.Rule = name
		return nil, cfgErr
	}

	return &Rule{
		name:    name,
		pattern: pattern,
		re:      re,
		opts:    opts,
	}, nil
}

// MustRule is like NewRule but panics on error.
func MustRule(name, pattern string, opts RuleOptions) *Rule {
	rule, err := NewRule(name, pattern, opts)
	if err != nil {
		panic(err)
	}
	return rule
}

// Name returns the display name of the rule.
func (r *Rule) Name() string { return r.name }

// Pattern returns the pattern source as written, without flags.
func (r *Rule) Pattern() string { return r.pattern }

// CaseSensitive reports whether matching is case-sensitive.
func (r *Rule) CaseSensitive() bool { return r.opts.CaseSensitive }

// Suggestion returns the configured replacement text, if any.
func (r *Rule) Suggestion() string { return r.opts.Suggestion }

// Keyword returns the configured trigger keyword, if any.
func (r *Rule) Keyword() string { return r.opts.Keyword }

// Justification returns the configured explanation, if any.
func (r *Rule) Justification() string { return r.opts.Justification }

// Options returns a copy of the rule's options.
func (r *Rule) Options() RuleOptions { return r.opts }

// CountMatches returns the number of non-overlapping matches in text.
//
// regexp.Regexp keeps no cursor between calls, so the result depends only on
// text and concurrent callers need no synchronization.
func (r *Rule) CountMatches(text string) int {
	if text == "" {
		return 0
	}
	return len(r.re.FindAllStringIndex(text, -1))
}

// FindMatches returns the byte ranges of all non-overlapping matches in text.
func (r *Rule) FindMatches(text string) []Match {
	if text == "" {
		return nil
	}

	locs := r.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	matches := make([]Match, len(locs))
	for i, loc := range locs {
		matches[i] = Match{Start: loc[0], End: loc[1]}
	}
	return matches
}

// ViolationMessage renders the remediation text for this rule.
//
// Without a suggestion the message is empty. Otherwise it reads
// `Use "<suggestion>" instead.` or, with a keyword,
// `Use "<suggestion>" instead of "<keyword>".`.
func (r *Rule) ViolationMessage() string {
	if r.opts.Suggestion == "" {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(`Use "`)
	builder.WriteString(r.opts.Suggestion)
	builder.WriteString(`" instead`)
	if r.opts.Keyword != "" {
		builder.WriteString(` of "`)
		builder.WriteString(r.opts.Keyword)
		builder.WriteString(`"`)
	}
	builder.WriteString(".")

	return builder.String()
}
