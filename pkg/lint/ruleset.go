package lint

import (
	"context"
	"errors"
	"sync"

	"github.com/yaklabco/gomdrules/pkg/config"
	"github.com/yaklabco/gomdrules/pkg/fsutil"
)

// ReadFunc reads the configuration document named by locator.
type ReadFunc func(ctx context.Context, locator string) ([]byte, error)

// RuleSetOption configures a RuleSet.
type RuleSetOption func(*RuleSet)

// WithReader replaces the reader used by Load. The default reads from disk.
func WithReader(read ReadFunc) RuleSetOption {
	return func(rs *RuleSet) {
		rs.read = read
	}
}

// RuleSet is the ordered collection of active rules: the built-ins followed
// by any rules loaded from the configuration document.
//
// Load may succeed at most once; afterwards the rule list never changes and
// concurrent readers need no synchronization beyond what Rules provides.
type RuleSet struct {
	mu      sync.RWMutex
	rules   []*Rule
	locator string
	read    ReadFunc
	loaded  bool
}

// NewRuleSet creates a RuleSet seeded with the built-in rules. The locator is
// stored but not read until Load. An empty locator means built-ins only.
func NewRuleSet(locator string, opts ...RuleSetOption) *RuleSet {
	rs := &RuleSet{
		rules:   BuiltinRules(),
		locator: locator,
		read:    fsutil.ReadText,
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// Locator returns the configuration document locator, if any.
func (rs *RuleSet) Locator() string {
	return rs.locator
}

// Loaded reports whether Load has completed successfully.
func (rs *RuleSet) Loaded() bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.loaded
}

// Rules returns the active rules in evaluation order.
// The returned slice is a copy; the rules themselves are immutable.
func (rs *RuleSet) Rules() []*Rule {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	result := make([]*Rule, len(rs.rules))
	copy(result, rs.rules)
	return result
}

// Len returns the number of active rules.
func (rs *RuleSet) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.rules)
}

// Load reads the configuration document and appends its rules after the
// built-ins, in document order.
//
// Errors are *ConfigurationError values of kind KindNotFound, KindMalformed or
// KindInvalidPattern. Every rule is built before any is appended, so a failed
// Load leaves the built-ins only and may be retried. Calling Load again after
// it succeeded returns a KindAlreadyLoaded error.
func (rs *RuleSet) Load(ctx context.Context) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.loaded {
		cfgErr := newConfigError(KindAlreadyLoaded, nil)
		cfgErr.Locator = rs.locator
		return cfgErr
	}

	if rs.locator == "" {
		rs.loaded = true
		return nil
	}

	loadedRules, err := rs.buildConfigured(ctx)
	if err != nil {
		return err
	}

	rs.rules = append(rs.rules, loadedRules...)
	rs.loaded = true

	return nil
}

// buildConfigured reads, validates and compiles the document's rules.
func (rs *RuleSet) buildConfigured(ctx context.Context) ([]*Rule, error) {
	content, err := rs.read(ctx, rs.locator)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		cfgErr := newConfigError(KindNotFound, err)
		cfgErr.Locator = rs.locator
		return nil, cfgErr
	}

	doc, err := config.ParseDocument(content)
	if err != nil {
		cfgErr := newConfigError(KindMalformed, err)
		cfgErr.Locator = rs.locator
		return nil, cfgErr
	}

	if err := doc.Validate(); err != nil {
		cfgErr := newConfigError(KindMalformed, err)
		cfgErr.Locator = rs.locator
		var descErr *config.DescriptorError
		if errors.As(err, &descErr) {
			cfgErr.Index = descErr.Index
		}
		return nil, cfgErr
	}

	rules := make([]*Rule, 0, len(doc.Rules))
	for idx, desc := range doc.Rules {
		rule, err := NewRule(desc.Name, desc.Regex, ruleOptionsFrom(desc.Options))
		if err != nil {
			var cfgErr *ConfigurationError
			if errors.As(err, &cfgErr) {
				cfgErr.Locator = rs.locator
				cfgErr.Index = idx
			}
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

func ruleOptionsFrom(opts *config.RuleOptions) RuleOptions {
	if opts == nil {
		return RuleOptions{}
	}
	return RuleOptions{
		Suggestion:    opts.Suggestion,
		Keyword:       opts.Keyword,
		CaseSensitive: opts.CaseSensitive,
		Justification: opts.Justification,
	}
}
