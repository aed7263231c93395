package lint

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a ConfigurationError.
type ErrorKind int

const (
	// KindNotFound means the configuration document could not be read.
	KindNotFound ErrorKind = iota + 1

	// KindMalformed means the document is not valid structured data, or a
	// rule descriptor is missing a required field.
	KindMalformed

	// KindInvalidPattern means a rule's pattern failed to compile.
	KindInvalidPattern

	// KindAlreadyLoaded means Load was called on a RuleSet that already loaded.
	KindAlreadyLoaded
)

// Sentinel errors matched by ConfigurationError.Is.
var (
	ErrNotFound       = errors.New("configuration not found")
	ErrMalformed      = errors.New("malformed configuration")
	ErrInvalidPattern = errors.New("invalid rule pattern")
	ErrAlreadyLoaded  = errors.New("rule set already loaded")
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindMalformed:
		return "Malformed"
	case KindInvalidPattern:
		return "InvalidPattern"
	case KindAlreadyLoaded:
		return "AlreadyLoaded"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindMalformed:
		return ErrMalformed
	case KindInvalidPattern:
		return ErrInvalidPattern
	case KindAlreadyLoaded:
		return ErrAlreadyLoaded
	default:
		return nil
	}
}

// ConfigurationError reports a failure to build a rule or a rule set.
type ConfigurationError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Locator is the configuration document the error came from, if any.
	Locator string

	// Rule is the name of the offending rule, if known.
	Rule string

	// Index is the 0-based position of the offending rule descriptor in the
	// document, or -1 when the error is not tied to a descriptor.
	Index int

	// Err is the underlying cause (e.g. the regexp compiler error).
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	parts := make([]string, 0, 4)

	if e.Locator != "" {
		parts = append(parts, e.Locator)
	}
	if e.Index >= 0 {
		parts = append(parts, fmt.Sprintf("rules[%d]", e.Index))
	}
	if e.Rule != "" {
		parts = append(parts, fmt.Sprintf("rule %q", e.Rule))
	}

	msg := e.Kind.sentinel()
	if msg == nil {
		msg = errors.New(e.Kind.String())
	}
	parts = append(parts, msg.Error())

	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel error for this error's kind.
func (e *ConfigurationError) Is(target error) bool {
	sentinel := e.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

// KindOf returns the ErrorKind of the first ConfigurationError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.Kind, true
	}
	return 0, false
}

func newConfigError(kind ErrorKind, cause error) *ConfigurationError {
	return &ConfigurationError{Kind: kind, Index: -1, Err: cause}
}
