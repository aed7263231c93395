package lint

// builtinDef is one row of the built-in rule table.
type builtinDef struct {
	name    string
	pattern string
	opts    RuleOptions
}

// builtinDefs is the house-style rule table, in evaluation order.
//
//nolint:gochecknoglobals // Read-only rule table.
var builtinDefs = []builtinDef{
	{name: "No TODO", pattern: `\bTODO\b`},
	{name: "File Name Casing", pattern: `\.JSON`, opts: RuleOptions{CaseSensitive: true, Suggestion: ".json"}},
	{name: "Strict Equality", pattern: `==`, opts: RuleOptions{Suggestion: "==="}},
	{name: "Strict Equality", pattern: `!=`, opts: RuleOptions{Suggestion: "!=="}},
	{
		name:    "Context Format",
		pattern: `\$\$.*?\$\$`,
		opts:    RuleOptions{Suggestion: `\$\$fldvalue\$\$`, Keyword: "$$context$$"},
	},
}

// BuiltinRules returns the built-in rules in their fixed order.
func BuiltinRules() []*Rule {
	rules := make([]*Rule, 0, len(builtinDefs))
	for _, def := range builtinDefs {
		rules = append(rules, MustRule(def.name, def.pattern, def.opts))
	}
	return rules
}

// BuiltinCount returns the number of built-in rules. They always occupy the
// first BuiltinCount positions of a RuleSet.
func BuiltinCount() int {
	return len(builtinDefs)
}
