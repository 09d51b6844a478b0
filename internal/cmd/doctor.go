package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/benchrun/internal/discovery"
	"github.com/felixgeelhaar/benchrun/internal/health"
)

func newDoctorCmd(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [export_dir]",
		Short: "Check the wrapper, build directory and export directory",
		Long: `Run preflight checks against the resolved configuration without launching
anything: whether the wrapper program can be found, whether the build directory
can be scanned and holds benchmarks, and, when given, whether export_dir exists.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := opts.loadSettings(cmd)
			if err != nil {
				return err
			}

			scanner, err := discovery.NewScanner(settings.Pattern)
			if err != nil {
				return err
			}

			manager := health.NewManager()
			manager.AddChecker(health.NewWrapperChecker(settings.WrapperPrefix))
			manager.AddChecker(health.NewBuildDirChecker(scanner, settings.BuildDir))
			if len(args) == 1 {
				manager.AddChecker(health.NewExportDirChecker(args[0]))
			}

			results := manager.Check(cmd.Context())
			out := cmd.OutOrStdout()
			for _, r := range results {
				logger.Debug("preflight check", "check", r.Name, "status", r.Status, "latency", r.Latency)
				fmt.Fprintf(out, "%s %-16s %s%s\n", statusSymbol(r.Status), r.Name, r.Message, formatDetails(r.Details))
			}

			overall := health.OverallStatus(results)
			fmt.Fprintf(out, "\nOverall: %s\n", overall)
			if overall == health.StatusUnhealthy {
				return fmt.Errorf("preflight checks failed")
			}
			return nil
		},
	}
}

func statusSymbol(s health.Status) string {
	switch s {
	case health.StatusHealthy:
		return "✓"
	case health.StatusDegraded:
		return "⚠"
	default:
		return "✗"
	}
}

func formatDetails(details map[string]interface{}) string {
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
