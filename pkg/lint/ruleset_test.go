package lint_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdrules/pkg/lint"
)

// builtinNames is the fixed built-in order.
var builtinNames = []string{
	"No TODO",
	"File Name Casing",
	"Strict Equality",
	"Strict Equality",
	"Context Format",
}

func ruleNames(rules []*lint.Rule) []string {
	names := make([]string, len(rules))
	for i, rule := range rules {
		names[i] = rule.Name()
	}
	return names
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestBuiltinRules(t *testing.T) {
	t.Parallel()

	rules := lint.BuiltinRules()
	require.Equal(t, builtinNames, ruleNames(rules))
	assert.Equal(t, len(rules), lint.BuiltinCount())

	tests := []struct {
		index   int
		pattern string
		message string
		cs      bool
	}{
		{0, `\bTODO\b`, "", false},
		{1, `\.JSON`, `Use ".json" instead.`, true},
		{2, `==`, `Use "===" instead.`, false},
		{3, `!=`, `Use "!==" instead.`, false},
		{4, `\$\$.*?\$\$`, `Use "\$\$fldvalue\$\$" instead of "$$context$$".`, false},
	}

	for _, testCase := range tests {
		rule := rules[testCase.index]
		assert.Equal(t, testCase.pattern, rule.Pattern(), rule.Name())
		assert.Equal(t, testCase.message, rule.ViolationMessage(), rule.Name())
		assert.Equal(t, testCase.cs, rule.CaseSensitive(), rule.Name())
	}
}

func TestRuleSet_NoLocator(t *testing.T) {
	t.Parallel()

	rs := lint.NewRuleSet("")
	require.NoError(t, rs.Load(context.Background()))

	assert.Equal(t, builtinNames, ruleNames(rs.Rules()))
	assert.True(t, rs.Loaded())
	assert.Equal(t, len(builtinNames), rs.Len())
}

func TestRuleSet_LoadYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, ".gomdrules.yml", `
rules:
  - name: No Foo
    regex: Foo
  - name: No AP
    regex: AP
    options:
      suggestion: Awesome Product
      keyword: AP
      caseSensitive: true
      justification: Use the full product name.
`)

	rs := lint.NewRuleSet(path)
	require.NoError(t, rs.Load(context.Background()))

	rules := rs.Rules()
	want := append(append([]string{}, builtinNames...), "No Foo", "No AP")
	require.Equal(t, want, ruleNames(rules))

	noFoo := rules[len(builtinNames)]
	assert.Equal(t, 1, noFoo.CountMatches("Foo"))
	assert.Equal(t, "", noFoo.ViolationMessage())

	noAP := rules[len(builtinNames)+1]
	assert.Equal(t, `Use "Awesome Product" instead of "AP".`, noAP.ViolationMessage())
	assert.Equal(t, 0, noAP.CountMatches("ap"))
	assert.Equal(t, "Use the full product name.", noAP.Justification())
}

func TestRuleSet_LoadYAMLFlowMapping(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, ".gomdrules.yml", "{rules: [{name: No Foo, regex: Foo}]}\n")

	rs := lint.NewRuleSet(path)
	require.NoError(t, rs.Load(context.Background()))

	rules := rs.Rules()
	require.Len(t, rules, len(builtinNames)+1)
	assert.Equal(t, "No Foo", rules[len(builtinNames)].Name())
	assert.Equal(t, "Foo", rules[len(builtinNames)].Pattern())
}

func TestRuleSet_LoadJSON(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, ".gomdrules.json", "{\n\t\"rules\": [\n\t\t{ \"name\": \"No Foo\", \"regex\": \"Foo\" }\n\t]\n}\n")

	rs := lint.NewRuleSet(path)
	require.NoError(t, rs.Load(context.Background()))

	rules := rs.Rules()
	require.Len(t, rules, len(builtinNames)+1)
	assert.Equal(t, "No Foo", rules[len(builtinNames)].Name())
	assert.Equal(t, 1, rules[len(builtinNames)].CountMatches("Foo"))
}

func TestRuleSet_LoadWithoutRulesKey(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, ".gomdrules.yml", "mode: document\n")

	rs := lint.NewRuleSet(path)
	require.NoError(t, rs.Load(context.Background()))
	assert.Equal(t, builtinNames, ruleNames(rs.Rules()))
}

func TestRuleSet_LoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"invalid regex", "rules:\n  - name: Bad\n    regex: \"(Foo\"\n", lint.ErrInvalidPattern},
		{"invalid regex after valid rule", "rules:\n  - name: Good\n    regex: Foo\n  - name: Bad\n    regex: \"[\"\n", lint.ErrInvalidPattern},
		{"not structured", "{not json", lint.ErrMalformed},
		{"text after json object", `{"rules":[{"name":"No Foo","regex":"Foo"}]} this is not json`, lint.ErrMalformed},
		{"second json object", `{"rules":[]} {"rules":[{"name":"X","regex":"X"}]}`, lint.ErrMalformed},
		{"second yaml document", "rules: []\n---\nrules:\n  - name: X\n    regex: X\n", lint.ErrMalformed},
		{"scalar document", "just some text\n", lint.ErrMalformed},
		{"missing name", "rules:\n  - regex: Foo\n", lint.ErrMalformed},
		{"missing regex", "rules:\n  - name: No Foo\n", lint.ErrMalformed},
		{"unknown field", "rules:\n  - name: No Foo\n    regx: Foo\n", lint.ErrMalformed},
		{"rules not a list", "rules: nope\n", lint.ErrMalformed},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, "config.yml", testCase.content)
			rs := lint.NewRuleSet(path)

			err := rs.Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, testCase.want)

			// No partial rule set.
			assert.Equal(t, builtinNames, ruleNames(rs.Rules()))
			assert.False(t, rs.Loaded())
		})
	}
}

func TestRuleSet_LoadErrorIndex(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "config.yml", "rules:\n  - name: Good\n    regex: Foo\n  - name: Bad\n    regex: \"(\"\n")
	err := lint.NewRuleSet(path).Load(context.Background())

	var cfgErr *lint.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 1, cfgErr.Index)
	assert.Equal(t, "Bad", cfgErr.Rule)
	assert.Equal(t, path, cfgErr.Locator)
	assert.Contains(t, err.Error(), "rules[1]")
}

func TestRuleSet_NotFound(t *testing.T) {
	t.Parallel()

	rs := lint.NewRuleSet(filepath.Join(t.TempDir(), "missing.yml"))

	err := rs.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, lint.ErrNotFound)

	kind, ok := lint.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, lint.KindNotFound, kind)

	assert.Equal(t, builtinNames, ruleNames(rs.Rules()))
	assert.False(t, rs.Loaded())
}

func TestRuleSet_RetryAfterFailure(t *testing.T) {
	t.Parallel()

	calls := 0
	reader := func(_ context.Context, _ string) ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("temporarily unavailable")
		}
		return []byte("rules:\n  - name: No Foo\n    regex: Foo\n"), nil
	}

	rs := lint.NewRuleSet("memory", lint.WithReader(reader))

	require.ErrorIs(t, rs.Load(context.Background()), lint.ErrNotFound)
	require.NoError(t, rs.Load(context.Background()))
	assert.Equal(t, len(builtinNames)+1, rs.Len())
}

func TestRuleSet_SecondLoadIsAlreadyLoaded(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "config.yml", "rules:\n  - name: No Foo\n    regex: Foo\n")
	rs := lint.NewRuleSet(path)

	require.NoError(t, rs.Load(context.Background()))
	err := rs.Load(context.Background())
	assert.ErrorIs(t, err, lint.ErrAlreadyLoaded)

	// Rules were not appended twice.
	assert.Equal(t, len(builtinNames)+1, rs.Len())

	noLocator := lint.NewRuleSet("")
	require.NoError(t, noLocator.Load(context.Background()))
	assert.ErrorIs(t, noLocator.Load(context.Background()), lint.ErrAlreadyLoaded)
}

func TestRuleSet_RulesIsCopy(t *testing.T) {
	t.Parallel()

	rs := lint.NewRuleSet("")
	rules := rs.Rules()
	rules[0] = nil

	assert.NotNil(t, rs.Rules()[0])
}

func TestRuleSet_Locator(t *testing.T) {
	t.Parallel()

	rs := lint.NewRuleSet("some/path.yml")
	assert.Equal(t, "some/path.yml", rs.Locator())
	assert.False(t, rs.Loaded())
}
