package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/gomdrules/internal/configloader"
	"github.com/yaklabco/gomdrules/pkg/fsutil"
	"github.com/yaklabco/gomdrules/pkg/lint"
	"github.com/yaklabco/gomdrules/pkg/runner"
)

// Exit codes for gomdrules.
const (
	// ExitSuccess indicates a clean run.
	ExitSuccess = 0

	// ExitLintErrors indicates the run found at least one violation.
	ExitLintErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates the configuration could not be loaded.
	ExitConfigError = 65

	// ExitInternalError indicates an unexpected failure.
	ExitInternalError = 70

	// ExitIOError indicates a file could not be read or written.
	ExitIOError = 74
)

// ErrLintIssuesFound is returned when the run found violations.
var ErrLintIssuesFound = errors.New("lint issues found")

// ExitCodeFromResult determines the exit code for a completed run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasIssues() {
		return ExitLintErrors
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var valErr *configloader.ValidationError
	var usageErr *usageError

	switch {
	case errors.Is(err, ErrLintIssuesFound):
		return ExitLintErrors
	case errors.As(err, &usageErr):
		return ExitInvalidUsage
	case errors.As(err, &valErr):
		return ExitConfigError
	}

	if _, ok := lint.KindOf(err); ok {
		return ExitConfigError
	}

	switch {
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// usageError marks a bad flag value.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }
