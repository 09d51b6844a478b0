package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/benchrun/internal/config"
	"github.com/felixgeelhaar/benchrun/internal/discovery"
	"github.com/felixgeelhaar/benchrun/internal/errors"
	"github.com/felixgeelhaar/benchrun/internal/exec"
	"github.com/felixgeelhaar/benchrun/internal/health"
	"github.com/felixgeelhaar/benchrun/internal/log"
	"github.com/felixgeelhaar/benchrun/internal/metrics"
	"github.com/felixgeelhaar/benchrun/internal/progress"
)

// runOptions holds the flags of the root command
type runOptions struct {
	env *env

	configPath  string
	buildDir    string
	pattern     string
	manifestDir string
	metricsFile string
	wrapper     string
	noWrapper   bool
	dryRun      bool
	failOnExit  bool
	logLevel    string
	logFormat   string
}

// bindFlags registers the settings flags as persistent, so subcommands such
// as doctor resolve the same configuration, and the batch flags locally.
func (o *runOptions) bindFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "config file (default <repo_root>/"+config.FileName+" when present)")
	pf.StringVar(&o.buildDir, "build-dir", "", "directory holding the benchmark executables (default <repo_root>/build)")
	pf.StringVar(&o.pattern, "pattern", "", "regular expression selecting benchmark file names (default "+discovery.DefaultPattern+")")
	pf.StringVar(&o.wrapper, "wrapper", "", "wrapper prefix, split on whitespace (e.g. \"time taskset -c 12\")")
	pf.BoolVar(&o.noWrapper, "no-wrapper", false, "run benchmarks without any wrapper prefix")
	pf.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error (default warn)")
	pf.StringVar(&o.logFormat, "log-format", "", "log format: text or json (default text)")

	f := cmd.Flags()
	f.StringVar(&o.manifestDir, "manifest-dir", "", "write one JSON run manifest per benchmark to this directory")
	f.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus textfile metrics here at the end of the batch")
	f.BoolVar(&o.dryRun, "dry-run", false, "print the invocations without launching anything")
	f.BoolVar(&o.failOnExit, "fail-on-exit", false, "exit 2 when any benchmark exits with a non-zero code")
}

// overrides collects the flags the user actually set
func (o *runOptions) overrides(cmd *cobra.Command) (config.Overrides, error) {
	var ov config.Overrides
	f := cmd.Flags()

	if f.Changed("wrapper") && o.noWrapper {
		return ov, errors.NewConfigInvalidError("command line", fmt.Errorf("--wrapper and --no-wrapper are mutually exclusive"))
	}

	if f.Changed("build-dir") {
		ov.BuildDir = &o.buildDir
	}
	if f.Changed("pattern") {
		ov.Pattern = &o.pattern
	}
	if f.Changed("manifest-dir") {
		ov.ManifestDir = &o.manifestDir
	}
	if f.Changed("metrics-file") {
		ov.MetricsFile = &o.metricsFile
	}
	if f.Changed("wrapper") {
		prefix := config.SplitWrapper(o.wrapper)
		ov.WrapperPrefix = &prefix
	}
	if o.noWrapper {
		empty := []string{}
		ov.WrapperPrefix = &empty
	}
	if f.Changed("dry-run") {
		ov.DryRun = &o.dryRun
	}
	if f.Changed("fail-on-exit") {
		ov.FailOnExit = &o.failOnExit
	}
	if f.Changed("log-level") {
		ov.LogLevel = &o.logLevel
	}
	if f.Changed("log-format") {
		ov.LogFormat = &o.logFormat
	}
	return ov, nil
}

func (o *runOptions) run(cmd *cobra.Command, args []string) error {
	stdout := cmd.OutOrStdout()

	// Too few arguments is not an error: show usage and do nothing
	if len(args) < 2 {
		fmt.Fprint(stdout, cmd.UsageString())
		return nil
	}

	seed, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.NewInvalidSeedError(args[0], err)
	}
	exportDir := args[1]

	settings, baseLogger, err := o.loadSettings(cmd)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	ctx := log.ContextWithRunID(cmd.Context(), runID)
	logger := baseLogger.WithContext(ctx)

	if len(args) > 2 {
		logger.Warn("ignoring extra arguments", "args", args[2:])
	}
	logger.Debug("resolved settings",
		"repo_root", settings.RepoRoot,
		"build_dir", settings.BuildDir,
		"config", settings.Source,
		"wrapper_prefix", settings.WrapperPrefix,
		"seed", seed,
		"export_dir", exportDir,
	)

	scanner, err := discovery.NewScanner(settings.Pattern)
	if err != nil {
		return err
	}
	targets, err := scanner.Discover(settings.BuildDir)
	if err != nil {
		logger.LogError(err)
		return err
	}
	logger.Info("discovered benchmarks", "count", len(targets), "build_dir", settings.BuildDir)

	if !settings.DryRun {
		// Every launch fails when the wrapper is missing; say so once up front
		if r := health.NewWrapperChecker(settings.WrapperPrefix).Check(ctx); r.Status == health.StatusUnhealthy {
			logger.Warn(r.Message, "suggestion", r.Details["suggestion"])
		}
	}

	reporter := progress.NewReporter(progress.Config{Writer: stdout, DryRun: settings.DryRun})
	reporter.Announce(exportDir, targets)

	launcher := o.env.launcher
	if launcher == nil {
		pl := exec.NewProcessLauncher()
		pl.Stdout = stdout
		pl.Stderr = o.env.stderr
		launcher = pl
	}

	dispatcher := exec.NewDispatcher(exec.RunConfig{
		Seed:          seed,
		ExportDir:     exportDir,
		WrapperPrefix: settings.Prefix(),
	}, launcher)
	dispatcher.DryRun = settings.DryRun
	dispatcher.ManifestDir = settings.ManifestDir
	dispatcher.RunID = runID
	dispatcher.Logger = baseLogger
	dispatcher.Observer = reporter

	registry, m := metrics.NewRegistry()
	if settings.MetricsFile != "" {
		dispatcher.Metrics = m
	}

	batch := dispatcher.Execute(ctx, targets)
	reporter.PrintSummary(batch)

	if settings.MetricsFile != "" {
		if err := metrics.WriteTextfile(settings.MetricsFile, registry); err != nil {
			logger.WithError(err).Warn("failed to write metrics textfile", "path", settings.MetricsFile)
		}
	}

	switch {
	case batch.Interrupted || ctx.Err() != nil:
		return ctx.Err()
	case batch.HasLaunchFailures():
		return errors.NewBatchLaunchError(batch.LaunchFailed, batch.Total)
	case settings.FailOnExit && batch.NonZero > 0:
		return errors.NewBatchFailedError(batch.NonZero, batch.Total)
	}
	return nil
}

// loadSettings resolves the layered configuration and installs the logger
func (o *runOptions) loadSettings(cmd *cobra.Command) (config.Settings, *log.Logger, error) {
	overrides, err := o.overrides(cmd)
	if err != nil {
		return config.Settings{}, nil, err
	}

	repoRoot, err := o.resolveRepoRoot(overrides)
	if err != nil {
		return config.Settings{}, nil, err
	}

	loader := config.NewLoader(repoRoot)
	loader.GOOS = o.env.goos
	settings, err := loader.Load(o.configPath, overrides)
	if err != nil {
		return config.Settings{}, nil, err
	}

	logCfg := settings.LoggerConfig()
	logCfg.Output = log.NewOutput(o.env.stderr)
	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)

	return settings, logger, nil
}

// resolveRepoRoot locates the repository root from the install location. When
// the build directory is given explicitly the working directory stands in for
// a root that cannot be resolved.
func (o *runOptions) resolveRepoRoot(ov config.Overrides) (string, error) {
	root, err := o.env.repoRoot()
	if err == nil {
		return root, nil
	}
	if ov.BuildDir == nil {
		return "", err
	}
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		return "", err
	}
	return wd, nil
}
