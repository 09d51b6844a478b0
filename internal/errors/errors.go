package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalidSeed ErrorCode = "CONFIG-002"
	ErrCodeConfigFileRead    ErrorCode = "CONFIG-003"
	ErrCodeConfigInvalid     ErrorCode = "CONFIG-004"
	ErrCodeConfigPattern     ErrorCode = "CONFIG-005"
	ErrCodeConfigRepoRoot    ErrorCode = "CONFIG-006"

	// Filesystem errors (FS-001 to FS-099)
	ErrCodeBuildDirNotFound   ErrorCode = "FS-001"
	ErrCodeBuildDirUnreadable ErrorCode = "FS-002"
	ErrCodeBuildDirNotDir     ErrorCode = "FS-003"

	// Launch errors (LAUNCH-001 to LAUNCH-099)
	ErrCodeLaunchNotFound      ErrorCode = "LAUNCH-001"
	ErrCodeLaunchNotExecutable ErrorCode = "LAUNCH-002"
	ErrCodeLaunchFailed        ErrorCode = "LAUNCH-003"
	ErrCodeLaunchBatch         ErrorCode = "LAUNCH-004"

	// Runtime failures (RUN-001 to RUN-099)
	ErrCodeRunNonZeroExit ErrorCode = "RUN-001"
	ErrCodeRunBatchFailed ErrorCode = "RUN-002"
)

// Category groups error codes by how far their effect reaches
type Category string

const (
	CategoryConfiguration Category = "configuration"
	CategoryFilesystem    Category = "filesystem"
	CategoryLaunch        Category = "launch"
	CategoryRuntime       Category = "runtime"
	CategoryUnknown       Category = "unknown"
)

// Category returns the taxonomy bucket the code belongs to
func (c ErrorCode) Category() Category {
	prefix, _, _ := strings.Cut(string(c), "-")
	switch prefix {
	case "CONFIG":
		return CategoryConfiguration
	case "FS":
		return CategoryFilesystem
	case "LAUNCH":
		return CategoryLaunch
	case "RUN":
		return CategoryRuntime
	default:
		return CategoryUnknown
	}
}

// BenchrunError represents an enhanced error with code, suggestions, and documentation
type BenchrunError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *BenchrunError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *BenchrunError) Unwrap() error {
	return e.Cause
}

// Category returns the taxonomy bucket of the error code
func (e *BenchrunError) Category() Category {
	return e.Code.Category()
}

// New creates a new BenchrunError
func New(code ErrorCode, message string) *BenchrunError {
	return &BenchrunError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new BenchrunError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *BenchrunError {
	return &BenchrunError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *BenchrunError) WithSuggestion(suggestion string) *BenchrunError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *BenchrunError) WithDocs(url string) *BenchrunError {
	e.DocsURL = url
	return e
}

// As finds the first BenchrunError in err's chain
func As(err error) (*BenchrunError, bool) {
	var be *BenchrunError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// CodeOf returns the code of the first BenchrunError in err's chain, or ""
func CodeOf(err error) ErrorCode {
	if be, ok := As(err); ok {
		return be.Code
	}
	return ""
}

// IsCategory reports whether err's chain carries a BenchrunError of the given category
func IsCategory(err error, category Category) bool {
	be, ok := As(err)
	return ok && be.Category() == category
}

// Common error constructors for frequently used errors

// NewInvalidSeedError creates a seed parse error
func NewInvalidSeedError(raw string, cause error) *BenchrunError {
	return Wrap(ErrCodeConfigInvalidSeed, fmt.Sprintf("invalid seed %q: must be an integer", raw), cause).
		WithSuggestion("Pass the seed as a base-10 integer, e.g. 'benchrun 42 <export_dir>'").
		WithSuggestion("Use '--' before a negative seed: 'benchrun -- -7 <export_dir>'")
}

// NewConfigReadError creates a config file read error
func NewConfigReadError(path string, cause error) *BenchrunError {
	return Wrap(ErrCodeConfigFileRead, fmt.Sprintf("failed to read config file: %s", path), cause).
		WithSuggestion("Check if the file path passed to --config is correct")
}

// NewConfigInvalidError creates a config validation error
func NewConfigInvalidError(details string, cause error) *BenchrunError {
	return Wrap(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details), cause).
		WithSuggestion("Check the YAML syntax of benchrun.yaml").
		WithSuggestion("wrapper_prefix must be a list of strings, e.g. [time, taskset, -c, \"12\"]")
}

// NewPatternInvalidError creates an invalid discovery pattern error
func NewPatternInvalidError(pattern string, cause error) *BenchrunError {
	return Wrap(ErrCodeConfigPattern, fmt.Sprintf("invalid discovery pattern: %q", pattern), cause).
		WithSuggestion("Use RE2 syntax, e.g. 'bench_(.+)__(.+)'")
}

// NewRepoRootError creates an error for an unresolvable install location
func NewRepoRootError(cause error) *BenchrunError {
	return Wrap(ErrCodeConfigRepoRoot, "failed to resolve repository root from executable location", cause).
		WithSuggestion("Pass --build-dir explicitly")
}

// NewBuildDirNotFoundError creates a missing build directory error
func NewBuildDirNotFoundError(path string, cause error) *BenchrunError {
	return Wrap(ErrCodeBuildDirNotFound, fmt.Sprintf("build directory not found: %s", path), cause).
		WithSuggestion("Build the benchmarks before running them").
		WithSuggestion("Pass --build-dir if the build output lives elsewhere")
}

// NewBuildDirUnreadableError creates an unreadable build directory error
func NewBuildDirUnreadableError(path string, cause error) *BenchrunError {
	return Wrap(ErrCodeBuildDirUnreadable, fmt.Sprintf("failed to read build directory: %s", path), cause).
		WithSuggestion("Verify you have read permissions on the directory")
}

// NewBuildDirNotDirError creates an error for a build path that is not a directory
func NewBuildDirNotDirError(path string) *BenchrunError {
	return New(ErrCodeBuildDirNotDir, fmt.Sprintf("build path is not a directory: %s", path))
}

// NewExecutableNotFoundError creates a missing target error
func NewExecutableNotFoundError(path string, cause error) *BenchrunError {
	return Wrap(ErrCodeLaunchNotFound, fmt.Sprintf("executable not found: %s", path), cause)
}

// NewNotExecutableError creates an error for a target without execute permission
func NewNotExecutableError(path string) *BenchrunError {
	return New(ErrCodeLaunchNotExecutable, fmt.Sprintf("file is not executable: %s", path)).
		WithSuggestion(fmt.Sprintf("Run 'chmod +x %s'", path))
}

// NewLaunchFailedError creates an error for a process the OS refused to start
func NewLaunchFailedError(argv0 string, cause error) *BenchrunError {
	return Wrap(ErrCodeLaunchFailed, fmt.Sprintf("launch failed: %s", argv0), cause).
		WithSuggestion("Check that every wrapper_prefix tool is installed and on PATH")
}

// NewNonZeroExitError creates a runtime failure for a target that exited non-zero
func NewNonZeroExitError(path string, exitCode int) *BenchrunError {
	return New(ErrCodeRunNonZeroExit, fmt.Sprintf("%s exited with code %d", path, exitCode))
}

// NewTerminatedError creates a runtime failure for a target stopped by a signal
func NewTerminatedError(path string, cause error) *BenchrunError {
	return Wrap(ErrCodeRunNonZeroExit, fmt.Sprintf("%s terminated abnormally", path), cause)
}

// NewBatchLaunchError summarizes a batch in which some targets never started
func NewBatchLaunchError(failed, total int) *BenchrunError {
	return New(ErrCodeLaunchBatch, fmt.Sprintf("%d of %d benchmark(s) failed to launch", failed, total)).
		WithSuggestion("Rebuild the benchmarks and check the wrapper_prefix tools are installed")
}

// NewBatchFailedError summarizes a batch in which some targets exited non-zero
func NewBatchFailedError(nonZero, total int) *BenchrunError {
	return New(ErrCodeRunBatchFailed, fmt.Sprintf("%d of %d benchmark(s) exited with a non-zero code", nonZero, total))
}
