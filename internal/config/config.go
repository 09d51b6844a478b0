package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/felixgeelhaar/benchrun/internal/log"
)

// FileName is the config file looked up in the repository root.
const FileName = "benchrun.yaml"

// Settings is the resolved configuration for one run. It is built once
// before discovery and not changed afterwards.
type Settings struct {
	// RepoRoot is the directory the build dir is relative to
	RepoRoot string

	// BuildDir holds the benchmark executables
	BuildDir string

	// Pattern selects benchmark file names
	Pattern string

	// WrapperPrefix is prepended to every invocation
	WrapperPrefix []string

	// ManifestDir receives one JSON manifest per target; empty disables
	ManifestDir string

	// MetricsFile receives a Prometheus textfile at batch end; empty disables
	MetricsFile string

	// FailOnExit turns non-zero benchmark exits into a failing exit code
	FailOnExit bool

	// DryRun prints invocations without launching them
	DryRun bool

	LogLevel  string
	LogFormat string

	// Source is the config file that was applied, empty when none was
	Source string
}

// DefaultWrapperPrefix returns the CPU pinning and timing prefix for goos.
// Deployments are expected to override it in benchrun.yaml.
func DefaultWrapperPrefix(goos string) []string {
	switch goos {
	case "linux":
		return []string{"time", "taskset", "-c", "12"}
	case "windows":
		return []string{}
	default:
		return []string{"time"}
	}
}

// Defaults returns the built-in settings for a repository root.
func Defaults(repoRoot, goos string) Settings {
	return Settings{
		RepoRoot:      repoRoot,
		BuildDir:      filepath.Join(repoRoot, "build"),
		Pattern:       `bench_(.+)__(.+)`,
		WrapperPrefix: DefaultWrapperPrefix(goos),
		LogLevel:      "warn",
		LogFormat:     "text",
	}
}

// Prefix returns a copy of the wrapper prefix.
func (s Settings) Prefix() []string {
	return slices.Clone(s.WrapperPrefix)
}

// LoggerConfig turns the log settings into a logger configuration.
func (s Settings) LoggerConfig() log.Config {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(s.LogLevel)
	cfg.Format = log.ParseFormat(s.LogFormat)
	return cfg
}

// Validate checks the settings for values the run cannot work with.
func (s Settings) Validate() error {
	if s.BuildDir == "" {
		return fmt.Errorf("build_dir must not be empty")
	}
	for i, token := range s.WrapperPrefix {
		if strings.TrimSpace(token) == "" {
			return fmt.Errorf("wrapper_prefix[%d] must not be blank", i)
		}
	}
	if _, err := log.LookupLevel(s.LogLevel); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json", "console":
	default:
		return fmt.Errorf("log.format: unknown format %q (want text or json)", s.LogFormat)
	}
	return nil
}

// Overrides carries values set explicitly on the command line. Nil fields
// leave the underlying setting alone.
type Overrides struct {
	BuildDir      *string
	Pattern       *string
	WrapperPrefix *[]string
	ManifestDir   *string
	MetricsFile   *string
	FailOnExit    *bool
	DryRun        *bool
	LogLevel      *string
	LogFormat     *string
}

// apply layers the overrides on top of s. Relative paths given on the
// command line are resolved against the working directory.
func (o Overrides) apply(s Settings) (Settings, error) {
	if o.BuildDir != nil {
		abs, err := filepath.Abs(*o.BuildDir)
		if err != nil {
			return s, fmt.Errorf("resolve --build-dir: %w", err)
		}
		s.BuildDir = abs
	}
	if o.Pattern != nil {
		s.Pattern = *o.Pattern
	}
	if o.WrapperPrefix != nil {
		s.WrapperPrefix = slices.Clone(*o.WrapperPrefix)
	}
	if o.ManifestDir != nil {
		s.ManifestDir = *o.ManifestDir
	}
	if o.MetricsFile != nil {
		s.MetricsFile = *o.MetricsFile
	}
	if o.FailOnExit != nil {
		s.FailOnExit = *o.FailOnExit
	}
	if o.DryRun != nil {
		s.DryRun = *o.DryRun
	}
	if o.LogLevel != nil {
		s.LogLevel = *o.LogLevel
	}
	if o.LogFormat != nil {
		s.LogFormat = *o.LogFormat
	}
	return s, nil
}

// SplitWrapper splits a --wrapper flag value on whitespace.
func SplitWrapper(value string) []string {
	return strings.Fields(value)
}
