package exec

import (
	"context"
	"strconv"
	"time"

	"github.com/felixgeelhaar/benchrun/internal/discovery"
	"github.com/felixgeelhaar/benchrun/internal/log"
	"github.com/felixgeelhaar/benchrun/internal/metrics"
)

// Skip reasons recorded on targets that were not launched.
const (
	ReasonDryRun      = "dry run"
	ReasonInterrupted = "interrupted"
)

// Observer is notified around every target in a batch. TargetStarting is
// not called for targets skipped because of an interrupt.
type Observer interface {
	TargetStarting(index, total int, target discovery.Target, inv Invocation)
	TargetFinished(index, total int, result *Result)
}

// Dispatcher runs discovered targets one after another.
type Dispatcher struct {
	Run         RunConfig
	Launcher    Launcher
	DryRun      bool
	ManifestDir string
	RunID       string
	Logger      *log.Logger
	Observer    Observer
	Metrics     *metrics.Metrics

	// now is replaced in tests
	now func() time.Time
}

// BatchResult contains results from dispatching a batch.
type BatchResult struct {
	RunID        string
	Total        int
	Completed    int
	NonZero      int
	LaunchFailed int
	Skipped      int
	Results      []*Result
	Manifests    []*RunManifest
	StartTime    time.Time
	EndTime      time.Time
	Interrupted  bool
}

// NewDispatcher creates a dispatcher for run. The wrapper prefix is copied,
// so later changes to the caller's slice do not reach the batch.
func NewDispatcher(run RunConfig, launcher Launcher) *Dispatcher {
	run.WrapperPrefix = append([]string(nil), run.WrapperPrefix...)
	return &Dispatcher{
		Run:      run,
		Launcher: launcher,
		Logger:   log.Discard(),
		now:      time.Now,
	}
}

// Execute runs every target in order and always returns one result per
// target. Cancelling ctx stops new launches; a child that is already
// running is waited on.
func (d *Dispatcher) Execute(ctx context.Context, targets []discovery.Target) *BatchResult {
	if d.RunID != "" {
		ctx = log.ContextWithRunID(ctx, d.RunID)
	}
	logger := d.logger().WithContext(ctx)
	batch := &BatchResult{
		RunID:     d.RunID,
		Total:     len(targets),
		Results:   make([]*Result, 0, len(targets)),
		StartTime: d.clock(),
	}

	d.Metrics.RecordDiscovery(len(targets))

	for i, target := range targets {
		inv := BuildInvocation(d.Run.WrapperPrefix, target.Path, d.Run.Seed, d.Run.ExportDir)
		result := &Result{
			Index:      i,
			Target:     target,
			Invocation: inv,
		}

		switch {
		case ctx.Err() != nil:
			result.Status = Status{Outcome: OutcomeSkipped, Reason: ReasonInterrupted, Start: d.clock()}
		case d.DryRun:
			d.starting(i, len(targets), target, inv)
			result.Status = Status{Outcome: OutcomeSkipped, Reason: ReasonDryRun, Start: d.clock()}
		default:
			d.starting(i, len(targets), target, inv)
			logger.Debug("launching target",
				"index", i,
				"target", target.Name,
				"argv", inv.Argv,
			)
			result.Status = d.Launcher.Launch(ctx, inv.Clone())
		}

		d.record(ctx, logger, batch, result)

		if d.Observer != nil {
			d.Observer.TargetFinished(i, len(targets), result)
		}
	}

	// A signal during the final launch leaves nothing to skip but still
	// interrupts the batch.
	batch.Interrupted = ctx.Err() != nil
	batch.EndTime = d.clock()
	d.Metrics.RecordBatch(d.RunID, strconv.FormatInt(d.Run.Seed, 10), batch.Duration())
	return batch
}

// record tallies one result, logs it and writes its manifest.
func (d *Dispatcher) record(ctx context.Context, logger *log.Logger, batch *BatchResult, result *Result) {
	batch.Results = append(batch.Results, result)

	switch result.Outcome {
	case OutcomeCompleted:
		batch.Completed++
		if result.ExitCode != 0 {
			batch.NonZero++
		}
		logger.Info("target finished",
			"target", result.Target.Name,
			"exit_code", result.ExitCode,
			"duration", result.Duration,
		)
	case OutcomeLaunchFailed:
		batch.LaunchFailed++
		logger.WithError(result.Error).Warn("target failed to launch",
			"target", result.Target.Name,
		)
	case OutcomeSkipped:
		batch.Skipped++
		logger.Debug("target skipped",
			"target", result.Target.Name,
			"reason", result.Reason,
		)
	}

	d.Metrics.RecordLaunch(result.Target.Name, result.Outcome.String(), result.ExitCode, result.Duration)

	if d.ManifestDir == "" {
		return
	}
	manifest := CreateManifest(d.RunID, d.Run, result)
	if _, err := SaveManifest(manifest, d.ManifestDir); err != nil {
		logger.WarnContext(ctx, "failed to save manifest", "target", result.Target.Name, "error", err)
		return
	}
	batch.Manifests = append(batch.Manifests, manifest)
}

func (d *Dispatcher) starting(index, total int, target discovery.Target, inv Invocation) {
	if d.Observer != nil {
		d.Observer.TargetStarting(index, total, target, inv.Clone())
	}
}

func (d *Dispatcher) logger() *log.Logger {
	if d.Logger == nil {
		return log.Discard()
	}
	return d.Logger
}

func (d *Dispatcher) clock() time.Time {
	if d.now == nil {
		return time.Now()
	}
	return d.now()
}

// Duration returns the wall-clock time of the batch.
func (r *BatchResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// HasLaunchFailures reports whether any target never started.
func (r *BatchResult) HasLaunchFailures() bool {
	return r.LaunchFailed > 0
}

// HasFailures reports whether any target failed to launch or exited non-zero.
func (r *BatchResult) HasFailures() bool {
	return r.LaunchFailed > 0 || r.NonZero > 0
}
