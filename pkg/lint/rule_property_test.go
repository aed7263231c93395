package lint_test

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/yaklabco/gomdrules/pkg/lint"
)

func TestRuleProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200
	if n, err := strconv.Atoi(os.Getenv("GOMDRULES_PROPERTY_TESTS")); err == nil && n > 0 {
		parameters.MinSuccessfulTests = n
	}

	properties := gopter.NewProperties(parameters)

	builtins := lint.BuiltinRules()

	properties.Property("counting is repeatable for every built-in", prop.ForAll(
		func(text string) bool {
			for _, rule := range builtins {
				if rule.CountMatches(text) != rule.CountMatches(text) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("empty text never matches", prop.ForAll(
		func(word string) bool {
			rule := lint.MustRule("Any", regexp.QuoteMeta(word)+"|x*", lint.RuleOptions{})
			return rule.CountMatches("") == 0
		},
		gen.AlphaString(),
	))

	properties.Property("repeated literal is counted once per occurrence", prop.ForAll(
		func(word string, times int) bool {
			rule := lint.MustRule("Literal", regexp.QuoteMeta(word), lint.RuleOptions{CaseSensitive: true})
			text := strings.Repeat(word+" ", times)
			return rule.CountMatches(text) == times
		},
		gen.Identifier(),
		gen.IntRange(0, 20),
	))

	properties.Property("no suggestion renders empty", prop.ForAll(
		func(keyword string) bool {
			rule := lint.MustRule("Any", "x", lint.RuleOptions{Keyword: keyword})
			return rule.ViolationMessage() == ""
		},
		gen.AnyString(),
	))

	properties.Property("suggestion renders exact sentence", prop.ForAll(
		func(suggestion string) bool {
			rule := lint.MustRule("Any", "x", lint.RuleOptions{Suggestion: suggestion})
			return rule.ViolationMessage() == `Use "`+suggestion+`" instead.`
		},
		gen.Identifier(),
	))

	properties.Property("suggestion and keyword render exact sentence", prop.ForAll(
		func(suggestion, keyword string) bool {
			rule := lint.MustRule("Any", "x", lint.RuleOptions{Suggestion: suggestion, Keyword: keyword})
			return rule.ViolationMessage() == `Use "`+suggestion+`" instead of "`+keyword+`".`
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
