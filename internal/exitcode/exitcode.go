package exitcode

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/benchrun/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates every target was launched
	Success = 0

	// GeneralError indicates a general error condition, including discovery failures
	GeneralError = 1

	// LaunchFailure indicates at least one target failed to launch
	LaunchFailure = 2

	// UsageError indicates invalid command usage (bad seed, bad flags, bad config)
	UsageError = 3

	// Interrupted indicates the batch was stopped by a signal
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	code := DetermineExitCode(err)
	Exit(code)
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if stderrors.Is(err, context.Canceled) {
		return Interrupted
	}

	if be, ok := errors.As(err); ok {
		switch be.Category() {
		case errors.CategoryConfiguration:
			return UsageError
		case errors.CategoryFilesystem:
			return GeneralError
		case errors.CategoryLaunch, errors.CategoryRuntime:
			return LaunchFailure
		}
	}

	errMsg := strings.ToLower(err.Error())

	// cobra and pflag report usage problems as plain errors
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown shorthand flag") {
		return UsageError
	}
	if strings.Contains(errMsg, "invalid argument") || strings.Contains(errMsg, "flag needs an argument") {
		return UsageError
	}
	if strings.Contains(errMsg, "unknown command") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case LaunchFailure:
		return "One or more benchmarks failed"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
