package cli

import (
	"errors"

	"github.com/yaklabco/herblint/pkg/lint"
	"github.com/yaklabco/herblint/pkg/runner"
)

// Exit codes for herblint.
const (
	// ExitSuccess indicates no failing offenses.
	ExitSuccess = 0

	// ExitLintErrors indicates errors beyond the legacy-debt budget.
	ExitLintErrors = 1

	// ExitLintWarnings indicates warnings in strict mode.
	ExitLintWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates an unreadable or invalid configuration.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates files that could not be read or written.
	ExitIOError = 74
)

// Errors returned by commands to select an exit code.
var (
	// ErrLintIssuesFound is returned when errors exceed the legacy-debt budget.
	ErrLintIssuesFound = errors.New("lint issues found")

	// ErrLintWarningsFound is returned for warnings in strict mode.
	ErrLintWarningsFound = errors.New("lint warnings found")

	// ErrFilesFailed is returned when some files could not be processed.
	ErrFilesFailed = errors.New("some files could not be processed")

	// ErrConfig wraps configuration errors.
	ErrConfig = errors.New("configuration error")

	// ErrUsage wraps invalid flag values.
	ErrUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code of a lint run. Tolerated
// errors never fail a run; in strict mode warnings do.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}
	switch {
	case result.HasFailures():
		return ExitLintErrors
	case result.Stats.FilesErrored > 0:
		return ExitIOError
	case strict && result.Stats.Warnings > 0:
		return ExitLintWarnings
	default:
		return ExitSuccess
	}
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrLintIssuesFound):
		return ExitLintErrors
	case errors.Is(err, ErrLintWarningsFound):
		return ExitLintWarnings
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrFilesFailed), lint.IsPipelineError(err):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// resultError returns the error matching ExitCodeFromResult.
func resultError(result *runner.Result, strict bool) error {
	switch ExitCodeFromResult(result, strict) {
	case ExitLintErrors:
		return ErrLintIssuesFound
	case ExitIOError:
		return ErrFilesFailed
	case ExitLintWarnings:
		return ErrLintWarningsFound
	default:
		return nil
	}
}
