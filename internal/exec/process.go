package exec

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/felixgeelhaar/benchrun/internal/errors"
)

// Launcher starts one invocation and blocks until it is done. Implementations
// must report every failure through the returned Status rather than panic or
// return early, so the batch loop always continues.
type Launcher interface {
	Launch(ctx context.Context, inv Invocation) Status
}

// ProcessLauncher runs invocations as child processes that share the
// parent's standard streams.
type ProcessLauncher struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewProcessLauncher creates a launcher wired to the current process's
// stdin, stdout and stderr.
func NewProcessLauncher() *ProcessLauncher {
	return &ProcessLauncher{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Launch runs inv to completion. The child is not tied to ctx: once started
// it is always waited on to its natural exit.
func (l *ProcessLauncher) Launch(ctx context.Context, inv Invocation) Status {
	startTime := time.Now()

	if err := CheckExecutable(inv.Executable); err != nil {
		return Status{
			Outcome:  OutcomeLaunchFailed,
			ExitCode: -1,
			Error:    err,
			Start:    startTime,
		}
	}

	cmd := exec.Command(inv.Argv[0], inv.Argv[1:]...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	err := cmd.Run()
	duration := time.Since(startTime)

	if err == nil {
		return Status{
			Outcome:  OutcomeCompleted,
			ExitCode: 0,
			Start:    startTime,
			Duration: duration,
		}
	}

	var exitErr *exec.ExitError
	if !stderrors.As(err, &exitErr) {
		// Command failed to start
		return Status{
			Outcome:  OutcomeLaunchFailed,
			ExitCode: -1,
			Error:    errors.NewLaunchFailedError(inv.Argv[0], err),
			Start:    startTime,
			Duration: duration,
		}
	}

	code := exitErr.ExitCode()
	runErr := errors.NewNonZeroExitError(inv.Executable, code)
	if code < 0 {
		runErr = errors.NewTerminatedError(inv.Executable, exitErr)
	}

	return Status{
		Outcome:  OutcomeCompleted,
		ExitCode: code,
		Error:    runErr,
		Start:    startTime,
		Duration: duration,
	}
}

// CheckExecutable verifies that path names an existing regular file the
// current user may execute.
func CheckExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewExecutableNotFoundError(path, err)
		}
		return errors.NewLaunchFailedError(path, err)
	}

	if !info.Mode().IsRegular() {
		return errors.NewNotExecutableError(path)
	}

	// Windows has no execute bit
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return errors.NewNotExecutableError(path)
	}

	return nil
}
