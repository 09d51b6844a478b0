package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/benchrun/internal/discovery"
	"github.com/felixgeelhaar/benchrun/internal/exec"
)

const rule = "═══════════════════════════════════════════════════════════"

// Reporter prints operator-facing progress for a benchmark batch. It
// implements exec.Observer.
type Reporter struct {
	writer io.Writer
	dryRun bool
	mu     sync.Mutex

	header  lipgloss.Style
	ok      lipgloss.Style
	failed  lipgloss.Style
	skipped lipgloss.Style
	dim     lipgloss.Style
}

// Config holds configuration for the reporter
type Config struct {
	Writer io.Writer
	DryRun bool // print invocations instead of "Running" lines
}

// NewReporter creates a reporter. Colours are only emitted when Writer is
// a terminal that supports them.
func NewReporter(cfg Config) *Reporter {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}

	r := lipgloss.NewRenderer(cfg.Writer)
	return &Reporter{
		writer:  cfg.Writer,
		dryRun:  cfg.DryRun,
		header:  r.NewStyle().Bold(true),
		ok:      r.NewStyle().Foreground(lipgloss.Color("10")),
		failed:  r.NewStyle().Foreground(lipgloss.Color("9")),
		skipped: r.NewStyle().Foreground(lipgloss.Color("11")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Announce prints the export directory and the list of targets before the
// batch starts.
func (p *Reporter) Announce(exportDir string, targets []discovery.Target) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "Will export test data to %s\n", exportDir)
	if len(targets) == 0 {
		fmt.Fprintln(p.writer, "No benchmarks found.")
		return
	}
	fmt.Fprintln(p.writer, "Will run the following tests:")
	for _, t := range targets {
		fmt.Fprintf(p.writer, "  %s\n", t.Path)
	}
	fmt.Fprintln(p.writer)
}

// TargetStarting prints the line shown before a target runs
func (p *Reporter) TargetStarting(index, total int, target discovery.Target, inv exec.Invocation) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dryRun {
		fmt.Fprintf(p.writer, "[%d/%d] Would run: %s\n", index+1, total, strings.Join(inv.Argv, " "))
		return
	}
	fmt.Fprintf(p.writer, "[%d/%d] Running %s\n", index+1, total, target.Path)
}

// TargetFinished prints the outcome of a target
func (p *Reporter) TargetFinished(index, total int, result *exec.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dryRun && result.Outcome == exec.OutcomeSkipped {
		return
	}

	if result.Outcome == exec.OutcomeSkipped {
		fmt.Fprintf(p.writer, "[%d/%d] %s %s %s\n", index+1, total, p.symbol(result), result.Target.Path, result.Describe())
		return
	}

	line := fmt.Sprintf("  %s %s", p.symbol(result), result.Describe())
	if result.Outcome == exec.OutcomeCompleted {
		line += p.dim.Render(fmt.Sprintf(" (%s)", formatDuration(result.Duration)))
	}
	fmt.Fprintln(p.writer, line)
}

// PrintSummary prints final batch summary
func (p *Reporter) PrintSummary(batch *exec.BatchResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.writer)
	fmt.Fprintln(p.writer, rule)
	fmt.Fprintln(p.writer, p.header.Render("Benchmark Summary"))
	fmt.Fprintln(p.writer, rule)

	if batch.RunID != "" {
		fmt.Fprintf(p.writer, "Run ID:          %s\n", batch.RunID)
	}
	fmt.Fprintf(p.writer, "Targets:         %d\n", batch.Total)
	fmt.Fprintf(p.writer, "Completed:       %d\n", batch.Completed)
	fmt.Fprintf(p.writer, "Non-zero exit:   %d\n", batch.NonZero)
	fmt.Fprintf(p.writer, "Launch failed:   %d\n", batch.LaunchFailed)
	fmt.Fprintf(p.writer, "Skipped:         %d\n", batch.Skipped)
	fmt.Fprintf(p.writer, "Total Time:      %s\n", formatDuration(batch.Duration()))
	if batch.Interrupted {
		fmt.Fprintln(p.writer, p.skipped.Render("Interrupted:     no further targets were started"))
	}

	fmt.Fprintln(p.writer, rule)

	if len(batch.Results) == 0 {
		return
	}

	fmt.Fprintln(p.writer)
	fmt.Fprintln(p.writer, "Results:")
	for _, r := range batch.Results {
		fmt.Fprintf(p.writer, "  %s %s - %s\n", p.symbol(r), r.Target.Label(), r.Describe())
	}
}

func (p *Reporter) symbol(r *exec.Result) string {
	switch {
	case r.Outcome == exec.OutcomeSkipped:
		return p.skipped.Render("⊘")
	case r.LaunchFailed(), r.ExitedNonZero():
		return p.failed.Render("✗")
	default:
		return p.ok.Render("✓")
	}
}

// formatDuration formats a duration for display. Benchmarks are often
// shorter than a second, so sub-minute values keep millisecond precision.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Round(time.Millisecond).String()
	}

	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	return fmt.Sprintf("%dm%ds", m, s)
}
