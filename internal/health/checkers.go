package health

import (
	"context"
	"os"
	"os/exec"

	"github.com/felixgeelhaar/benchrun/internal/discovery"
)

// WrapperChecker checks that the first wrapper token can be found.
type WrapperChecker struct {
	prefix []string
}

// NewWrapperChecker creates a checker for a wrapper prefix.
func NewWrapperChecker(prefix []string) *WrapperChecker {
	return &WrapperChecker{prefix: append([]string(nil), prefix...)}
}

// Name returns the name of this health check.
func (c *WrapperChecker) Name() string {
	return "wrapper-prefix"
}

// Check resolves the wrapper program the same way a launch will.
// Returns:
//   - Healthy if there is no wrapper or it resolves to an executable
//   - Unhealthy if it cannot be found, in which case every launch fails
func (c *WrapperChecker) Check(ctx context.Context) *Result {
	if len(c.prefix) == 0 {
		return Healthy("no wrapper prefix configured")
	}

	program := c.prefix[0]
	path, err := exec.LookPath(program)
	if err != nil {
		return Unhealthy("wrapper "+program+" not found").
			WithDetail("error", err.Error()).
			WithDetail("suggestion", "Install it, change wrapper_prefix in benchrun.yaml, or pass --no-wrapper")
	}

	return Healthy("wrapper " + program + " found").
		WithDetail("path", path).
		WithDetail("prefix", c.prefix)
}

// BuildDirChecker checks that the build directory can be scanned.
type BuildDirChecker struct {
	scanner *discovery.Scanner
	dir     string
}

// NewBuildDirChecker creates a checker that scans dir with scanner.
func NewBuildDirChecker(scanner *discovery.Scanner, dir string) *BuildDirChecker {
	return &BuildDirChecker{scanner: scanner, dir: dir}
}

// Name returns the name of this health check.
func (c *BuildDirChecker) Name() string {
	return "build-dir"
}

// Check runs discovery on the build directory.
// Returns:
//   - Healthy if at least one benchmark is found
//   - Degraded if the directory holds no benchmarks
//   - Unhealthy if the directory is missing or unreadable
func (c *BuildDirChecker) Check(ctx context.Context) *Result {
	targets, err := c.scanner.Discover(c.dir)
	if err != nil {
		return Unhealthy("build directory cannot be scanned").
			WithDetail("dir", c.dir).
			WithDetail("error", err.Error())
	}
	if len(targets) == 0 {
		return Degraded("no benchmarks found").
			WithDetail("dir", c.dir).
			WithDetail("pattern", c.scanner.Pattern.String())
	}
	return Healthy("benchmarks found").
		WithDetail("dir", c.dir).
		WithDetail("count", len(targets))
}

// ExportDirChecker reports on the export directory. Benchmarks create and
// write it themselves, so a problem here is never worse than degraded.
type ExportDirChecker struct {
	dir string
}

// NewExportDirChecker creates a checker for dir.
func NewExportDirChecker(dir string) *ExportDirChecker {
	return &ExportDirChecker{dir: dir}
}

// Name returns the name of this health check.
func (c *ExportDirChecker) Name() string {
	return "export-dir"
}

// Check stats the export directory.
func (c *ExportDirChecker) Check(ctx context.Context) *Result {
	info, err := os.Stat(c.dir)
	switch {
	case os.IsNotExist(err):
		return Degraded("export directory does not exist").
			WithDetail("dir", c.dir)
	case err != nil:
		return Degraded("export directory cannot be inspected").
			WithDetail("dir", c.dir).
			WithDetail("error", err.Error())
	case !info.IsDir():
		return Degraded("export path is not a directory").
			WithDetail("dir", c.dir)
	}
	return Healthy("export directory exists").WithDetail("dir", c.dir)
}
