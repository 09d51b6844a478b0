package cmd

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/benchrun/internal/config"
	"github.com/felixgeelhaar/benchrun/internal/exec"
)

// env holds the process-level collaborators of the CLI. Tests swap them out.
type env struct {
	stdout   io.Writer
	stderr   io.Writer
	launcher exec.Launcher // nil means child processes
	repoRoot func() (string, error)
	goos     string
}

func defaultEnv() *env {
	return &env{
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		repoRoot: config.DetectRepoRoot,
		goos:     runtime.GOOS,
	}
}

var rootCmd = newRootCmd(defaultEnv())

func newRootCmd(e *env) *cobra.Command {
	opts := &runOptions{env: e}

	cmd := &cobra.Command{
		Use:   "benchrun [flags] <seed> <export_dir>",
		Short: "Run every built benchmark with a seed and an export directory",
		Long: `benchrun discovers the benchmark executables in <repo_root>/build whose names
match bench_<component>__<variant> and runs them one after another as

    <wrapper_prefix...> <executable> <seed> <export_dir>

Benchmarks inherit the terminal and write their own results to export_dir.
A benchmark that fails to launch or exits non-zero does not stop the batch.

Use '--' before a negative seed: benchrun -- -7 /tmp/out`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          opts.run,
	}
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)

	opts.bindFlags(cmd)
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDoctorCmd(opts))

	return cmd
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx. Cancelling ctx stops the
// batch before the next benchmark starts.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
