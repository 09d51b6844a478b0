package exec

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/felixgeelhaar/benchrun/internal/discovery"
	"github.com/felixgeelhaar/benchrun/internal/errors"
)

// RunConfig is the per-batch input shared by every target.
type RunConfig struct {
	Seed          int64
	ExportDir     string
	WrapperPrefix []string
}

// Invocation is the full argv used to launch one target.
type Invocation struct {
	Argv       []string
	Executable string
}

// BuildInvocation returns prefix ++ [executable, seed, exportDir]. The prefix
// is copied, so no two invocations share a backing array.
func BuildInvocation(prefix []string, executable string, seed int64, exportDir string) Invocation {
	argv := make([]string, 0, len(prefix)+3)
	argv = append(argv, prefix...)
	argv = append(argv, executable, strconv.FormatInt(seed, 10), exportDir)
	return Invocation{
		Argv:       argv,
		Executable: executable,
	}
}

// Clone returns a deep copy of the invocation.
func (i Invocation) Clone() Invocation {
	return Invocation{Argv: slices.Clone(i.Argv), Executable: i.Executable}
}

// Outcome is how a single launch ended.
type Outcome int

const (
	// OutcomeCompleted means the process ran and exited; see ExitCode.
	OutcomeCompleted Outcome = iota
	// OutcomeLaunchFailed means the process never started.
	OutcomeLaunchFailed
	// OutcomeSkipped means no launch was attempted (dry run, interrupt).
	OutcomeSkipped
)

// String returns the outcome label used in logs, manifests and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeLaunchFailed:
		return "launch_failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Status is what a Launcher reports for one invocation.
type Status struct {
	Outcome  Outcome
	ExitCode int // valid when Outcome is OutcomeCompleted; -1 when signalled
	Error    error
	Start    time.Time
	Duration time.Duration
	Reason   string // why a skipped target was not launched
}

// Result represents the outcome of one target in a batch.
type Result struct {
	Index      int
	Target     discovery.Target
	Invocation Invocation
	Status
}

// LaunchFailed reports whether the target never started.
func (r *Result) LaunchFailed() bool {
	return r.Outcome == OutcomeLaunchFailed
}

// ExitedNonZero reports whether the target ran and exited unsuccessfully.
func (r *Result) ExitedNonZero() bool {
	return r.Outcome == OutcomeCompleted && r.ExitCode != 0
}

// Describe returns the operator-facing summary of the outcome.
func (r *Result) Describe() string {
	switch r.Outcome {
	case OutcomeCompleted:
		if r.ExitCode < 0 {
			return fmt.Sprintf("terminated abnormally (%v)", r.Error)
		}
		return fmt.Sprintf("exited with code %d", r.ExitCode)
	case OutcomeLaunchFailed:
		switch errors.CodeOf(r.Error) {
		case errors.ErrCodeLaunchNotFound:
			return "executable not found"
		case errors.ErrCodeLaunchNotExecutable:
			return "executable not executable"
		default:
			if be, ok := errors.As(r.Error); ok && be.Cause != nil {
				return fmt.Sprintf("launch failed: %v", be.Cause)
			}
			return "launch failed"
		}
	case OutcomeSkipped:
		return fmt.Sprintf("skipped (%s)", r.Reason)
	default:
		return "unknown outcome"
	}
}

// RunManifest represents the audit log for one target launch.
type RunManifest struct {
	RunID          string    `json:"run_id"`
	Timestamp      time.Time `json:"timestamp"`
	Index          int       `json:"index"`
	Target         string    `json:"target"`
	Component      string    `json:"component,omitempty"`
	Variant        string    `json:"variant,omitempty"`
	Command        []string  `json:"command"`
	Seed           int64     `json:"seed"`
	ExportDir      string    `json:"export_dir"`
	Outcome        string    `json:"outcome"`
	ExitCode       int       `json:"exit_code"`
	Duration       string    `json:"duration"`
	Error          string    `json:"error,omitempty"`
	ExecutableHash string    `json:"executable_blake3,omitempty"`
}
