package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/gomdparse/internal/configloader"
	"github.com/yaklabco/gomdparse/pkg/config"
	"github.com/yaklabco/gomdparse/pkg/fsutil"
	"github.com/yaklabco/gomdparse/pkg/runner"
)

// Exit codes for gomdparse.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitProblems indicates files failed to parse or hold error blocks.
	ExitProblems = 1

	// ExitMismatches indicates a conformance check found differences.
	ExitMismatches = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Signals returned by commands to select an exit code. They carry no
// message worth logging.
var (
	ErrProblemsFound = errors.New("parse problems found")
	ErrMismatches    = errors.New("structure differs from goldmark")
)

// ExitCodeFromResult determines the exit code of a finished run.
func ExitCodeFromResult(result *runner.Result) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasMismatches():
		return ExitMismatches
	case result.HasErrors():
		return ExitProblems
	default:
		return ExitSuccess
	}
}

// resultError converts a run's exit code into the matching signal.
func resultError(result *runner.Result) error {
	switch ExitCodeFromResult(result) {
	case ExitMismatches:
		return ErrMismatches
	case ExitProblems:
		return ErrProblemsFound
	default:
		return nil
	}
}

// IsSignal reports whether err only selects an exit code.
func IsSignal(err error) bool {
	return errors.Is(err, ErrProblemsFound) || errors.Is(err, ErrMismatches)
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	var validation *configloader.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrMismatches):
		return ExitMismatches
	case errors.Is(err, ErrProblemsFound):
		return ExitProblems
	case errors.As(err, &validation),
		errors.Is(err, configloader.ErrConfigNotFound),
		errors.Is(err, config.ErrUnknownExtension):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	case errors.Is(err, errUsage):
		return ExitInvalidUsage
	default:
		return ExitInternalError
	}
}
