package lint

import (
	"context"
	"fmt"

	"github.com/yaklabco/gomdrules/pkg/config"
)

// WholeDocument is the Line value of a violation found in whole-document mode.
const WholeDocument = -1

// Violation records how often one rule matched at one location.
type Violation struct {
	// Rule is the rule that matched.
	Rule *Rule

	// RuleIndex is the rule's position in the rule set.
	RuleIndex int

	// Line is the 1-based line number, or WholeDocument.
	Line int

	// Column is the 1-based byte column of the first match on the line.
	// It is 0 for whole-document violations.
	Column int

	// Count is the number of matches at this location (always > 0).
	Count int
}

// IsWholeDocument reports whether the violation is not tied to a line.
func (v Violation) IsWholeDocument() bool {
	return v.Line == WholeDocument
}

// Message returns the rule's remediation message.
func (v Violation) Message() string {
	return v.Rule.ViolationMessage()
}

// Scanner evaluates an ordered list of rules against text.
// It holds no mutable state and may be shared between goroutines.
type Scanner struct {
	// Rules are evaluated in order.
	Rules []*Rule

	// Mode selects line or whole-document scanning.
	Mode config.ScanMode
}

// NewScanner creates a Scanner over the current rules of rs.
// An empty mode defaults to line scanning.
func NewScanner(rs *RuleSet, mode config.ScanMode) *Scanner {
	if mode == "" {
		mode = config.ModeLine
	}
	return &Scanner{Rules: rs.Rules(), Mode: mode}
}

// Scan returns the violations in content.
//
// In document mode each rule is counted once over the whole text, in rule
// order. In line mode violations are ordered by line, then by rule order.
func (s *Scanner) Scan(ctx context.Context, content []byte) ([]Violation, error) {
	switch s.Mode {
	case config.ModeDocument:
		return s.scanDocument(ctx, string(content))
	case config.ModeLine, "":
		return s.scanLines(ctx, content)
	default:
		return nil, fmt.Errorf("unknown scan mode %q", s.Mode)
	}
}

func (s *Scanner) scanDocument(ctx context.Context, text string) ([]Violation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}

	var violations []Violation
	for idx, rule := range s.Rules {
		if count := rule.CountMatches(text); count > 0 {
			violations = append(violations, Violation{
				Rule:      rule,
				RuleIndex: idx,
				Line:      WholeDocument,
				Count:     count,
			})
		}
	}
	return violations, nil
}

func (s *Scanner) scanLines(ctx context.Context, content []byte) ([]Violation, error) {
	var violations []Violation

	for _, line := range SplitLines(content) {
		select {
		case <-ctx.Done():
			return violations, fmt.Errorf("scan cancelled: %w", ctx.Err())
		default:
		}

		for idx, rule := range s.Rules {
			matches := rule.FindMatches(line.Text)
			if len(matches) == 0 {
				continue
			}
			violations = append(violations, Violation{
				Rule:      rule,
				RuleIndex: idx,
				Line:      line.Number,
				Column:    matches[0].Start + 1,
				Count:     len(matches),
			})
		}
	}

	return violations, nil
}

// Expand returns one entry per occurrence: a violation with Count n becomes
// n violations with Count 1.
func Expand(violations []Violation) []Violation {
	total := 0
	for _, v := range violations {
		total += v.Count
	}

	expanded := make([]Violation, 0, total)
	for _, v := range violations {
		single := v
		single.Count = 1
		for range v.Count {
			expanded = append(expanded, single)
		}
	}
	return expanded
}

// Total returns the sum of Count over violations.
func Total(violations []Violation) int {
	total := 0
	for _, v := range violations {
		total += v.Count
	}
	return total
}
