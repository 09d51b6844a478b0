package exec

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/benchrun/internal/errors"
)

func TestBuildInvocation(t *testing.T) {
	prefix := []string{"time", "taskset", "-c", "12"}

	inv := BuildInvocation(prefix, "/build/bench_a__b", 42, "/tmp/out")

	assert.Equal(t,
		[]string{"time", "taskset", "-c", "12", "/build/bench_a__b", "42", "/tmp/out"},
		inv.Argv)
	assert.Equal(t, "/build/bench_a__b", inv.Executable)
}

func TestBuildInvocationEmptyPrefix(t *testing.T) {
	inv := BuildInvocation(nil, "/build/bench_a__b", -7, "out")
	assert.Equal(t, []string{"/build/bench_a__b", "-7", "out"}, inv.Argv)
}

func TestBuildInvocationDoesNotAlias(t *testing.T) {
	// Spare capacity would let a naive append share the backing array
	prefix := make([]string, 2, 8)
	copy(prefix, []string{"time", "nice"})

	first := BuildInvocation(prefix, "/build/bench_a__x", 1, "/out")
	second := BuildInvocation(prefix, "/build/bench_a__y", 2, "/out")

	first.Argv[0] = "mutated"
	prefix[1] = "mutated"

	assert.Equal(t, []string{"time", "nice", "/build/bench_a__y", "2", "/out"}, second.Argv)
	assert.Equal(t, "nice", first.Argv[1])
}

func TestBuildInvocationDeterministic(t *testing.T) {
	prefix := []string{"time", "taskset", "-c", "12"}
	targets := []string{"/build/bench_sort__radix", "/build/bench_sort__quick"}

	for _, target := range targets {
		a := BuildInvocation(prefix, target, 42, "/tmp/out")
		b := BuildInvocation(prefix, target, 42, "/tmp/out")
		assert.Equal(t, a.Argv, b.Argv, target)
	}
}

func TestInvocationClone(t *testing.T) {
	inv := BuildInvocation([]string{"time"}, "/b/bench_a__b", 1, "/o")
	clone := inv.Clone()
	clone.Argv[0] = "changed"
	assert.Equal(t, "time", inv.Argv[0])
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "completed", OutcomeCompleted.String())
	assert.Equal(t, "launch_failed", OutcomeLaunchFailed.String())
	assert.Equal(t, "skipped", OutcomeSkipped.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}

func TestResultDescribe(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   string
	}{
		{
			name:   "success",
			status: Status{Outcome: OutcomeCompleted, ExitCode: 0},
			want:   "exited with code 0",
		},
		{
			name:   "non-zero exit",
			status: Status{Outcome: OutcomeCompleted, ExitCode: 3, Error: errors.NewNonZeroExitError("/b/x", 3)},
			want:   "exited with code 3",
		},
		{
			name:   "signalled",
			status: Status{Outcome: OutcomeCompleted, ExitCode: -1, Error: fmt.Errorf("signal: killed")},
			want:   "terminated abnormally (signal: killed)",
		},
		{
			name:   "not found",
			status: Status{Outcome: OutcomeLaunchFailed, Error: errors.NewExecutableNotFoundError("/b/x", nil)},
			want:   "executable not found",
		},
		{
			name:   "not executable",
			status: Status{Outcome: OutcomeLaunchFailed, Error: errors.NewNotExecutableError("/b/x")},
			want:   "executable not executable",
		},
		{
			name:   "launch failed with cause",
			status: Status{Outcome: OutcomeLaunchFailed, Error: errors.NewLaunchFailedError("taskset", fmt.Errorf("permission denied"))},
			want:   "launch failed: permission denied",
		},
		{
			name:   "launch failed without cause",
			status: Status{Outcome: OutcomeLaunchFailed},
			want:   "launch failed",
		},
		{
			name:   "skipped",
			status: Status{Outcome: OutcomeSkipped, Reason: ReasonDryRun},
			want:   "skipped (dry run)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Result{Status: tt.status}
			assert.Equal(t, tt.want, r.Describe())
		})
	}
}

func TestResultPredicates(t *testing.T) {
	failed := &Result{Status: Status{Outcome: OutcomeLaunchFailed, ExitCode: -1}}
	require.True(t, failed.LaunchFailed())
	require.False(t, failed.ExitedNonZero())

	nonZero := &Result{Status: Status{Outcome: OutcomeCompleted, ExitCode: 1}}
	require.False(t, nonZero.LaunchFailed())
	require.True(t, nonZero.ExitedNonZero())

	skipped := &Result{Status: Status{Outcome: OutcomeSkipped}}
	require.False(t, skipped.LaunchFailed())
	require.False(t, skipped.ExitedNonZero())
}
