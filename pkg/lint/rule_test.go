package lint_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdrules/pkg/lint"
)

func TestNewRule_InvalidPattern(t *testing.T) {
	t.Parallel()

	rule, err := lint.NewRule("Broken", "(unclosed", lint.RuleOptions{})
	require.Error(t, err)
	assert.Nil(t, rule)
	assert.ErrorIs(t, err, lint.ErrInvalidPattern)

	kind, ok := lint.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, lint.KindInvalidPattern, kind)

	var cfgErr *lint.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Broken", cfgErr.Rule)
	assert.NotNil(t, errors.Unwrap(err), "compiler error should be preserved")
}

func TestNewRule_EmptyName(t *testing.T) {
	t.Parallel()

	_, err := lint.NewRule("  ", "x", lint.RuleOptions{})
	assert.ErrorIs(t, err, lint.ErrMalformed)
}

func TestMustRule_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		lint.MustRule("Broken", "[", lint.RuleOptions{})
	})
}

func TestRule_CountMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		pattern       string
		caseSensitive bool
		text          string
		want          int
	}{
		{"case-sensitive uppercase hit", `\.JSON`, true, "report.JSON", 1},
		{"case-sensitive lowercase miss", `\.JSON`, true, "report.json", 0},
		{"case-insensitive lowercase hit", `\.JSON`, false, "report.json", 1},
		{"default case lower operands", `==`, false, "a==b", 1},
		{"default case upper operands", `==`, false, "A==B", 1},
		{"multiplicity", `AP`, false, "AP AP AP", 3},
		{"case-insensitive multiplicity", `AP`, false, "ap Ap aP", 3},
		{"non-overlapping", `aa`, false, "aaaa", 2},
		{"non-greedy context markers", `\$\$.*?\$\$`, false, "$$a$$ and $$b$$", 2},
		{"word boundary", `\bTODO\b`, false, "TODOS todo TODO:", 2},
		{"empty text", `.*`, false, "", 0},
		{"no match", `foo`, false, "bar", 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			rule, err := lint.NewRule("Test", testCase.pattern, lint.RuleOptions{CaseSensitive: testCase.caseSensitive})
			require.NoError(t, err)

			assert.Equal(t, testCase.want, rule.CountMatches(testCase.text))
			assert.Len(t, rule.FindMatches(testCase.text), testCase.want)
		})
	}
}

func TestRule_CountMatches_Repeatable(t *testing.T) {
	t.Parallel()

	rule := lint.MustRule("No AP", "AP", lint.RuleOptions{})
	text := "AP is short for AP"

	first := rule.CountMatches(text)
	second := rule.CountMatches(text)
	assert.Equal(t, 2, first)
	assert.Equal(t, first, second)
}

func TestRule_CountMatches_Concurrent(t *testing.T) {
	t.Parallel()

	rule := lint.MustRule("Strict Equality", "==", lint.RuleOptions{})

	var wg sync.WaitGroup
	results := make([]int, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = rule.CountMatches("a == b == c")
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, 2, got)
	}
}

func TestRule_FindMatches_Offsets(t *testing.T) {
	t.Parallel()

	rule := lint.MustRule("Strict Equality", "==", lint.RuleOptions{})
	matches := rule.FindMatches("a == b")

	require.Len(t, matches, 1)
	assert.Equal(t, lint.Match{Start: 2, End: 4}, matches[0])
}

func TestRule_ViolationMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts lint.RuleOptions
		want string
	}{
		{"no suggestion", lint.RuleOptions{}, ""},
		{"keyword without suggestion", lint.RuleOptions{Keyword: "AP"}, ""},
		{"suggestion only", lint.RuleOptions{Suggestion: "==="}, `Use "===" instead.`},
		{
			"suggestion and keyword",
			lint.RuleOptions{Suggestion: "Awesome Product", Keyword: "AP"},
			`Use "Awesome Product" instead of "AP".`,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			rule := lint.MustRule("Test", "x", testCase.opts)
			assert.Equal(t, testCase.want, rule.ViolationMessage())
		})
	}
}

func TestRule_Accessors(t *testing.T) {
	t.Parallel()

	opts := lint.RuleOptions{
		Suggestion:    ".json",
		Keyword:       ".JSON",
		CaseSensitive: true,
		Justification: "lowercase extensions",
	}
	rule := lint.MustRule("File Name Casing", `\.JSON`, opts)

	assert.Equal(t, "File Name Casing", rule.Name())
	assert.Equal(t, `\.JSON`, rule.Pattern())
	assert.True(t, rule.CaseSensitive())
	assert.Equal(t, ".json", rule.Suggestion())
	assert.Equal(t, ".JSON", rule.Keyword())
	assert.Equal(t, "lowercase extensions", rule.Justification())
	assert.Equal(t, opts, rule.Options())
}
