package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/benchrun/internal/errors"
)

// File is the on-disk shape of benchrun.yaml.
type File struct {
	Schema        string    `yaml:"schema,omitempty"`
	WrapperPrefix *[]string `yaml:"wrapper_prefix,omitempty"`
	BuildDir      string    `yaml:"build_dir,omitempty"`
	Pattern       string    `yaml:"pattern,omitempty"`
	ManifestDir   string    `yaml:"manifest_dir,omitempty"`
	MetricsFile   string    `yaml:"metrics_file,omitempty"`
	FailOnExit    *bool     `yaml:"fail_on_exit,omitempty"`
	Log           struct {
		Level  string `yaml:"level,omitempty"`
		Format string `yaml:"format,omitempty"`
	} `yaml:"log,omitempty"`
}

// Loader resolves Settings from built-in defaults, a config file and
// command line overrides, in increasing precedence.
type Loader struct {
	// RepoRoot anchors the default build dir and relative file paths
	RepoRoot string

	// GOOS selects the default wrapper prefix
	GOOS string
}

// NewLoader creates a loader for the given repository root.
func NewLoader(repoRoot string) *Loader {
	return &Loader{
		RepoRoot: repoRoot,
		GOOS:     runtime.GOOS,
	}
}

// Load resolves the settings for a run. An explicit path must exist; without
// one, <RepoRoot>/benchrun.yaml is applied when present.
func (l *Loader) Load(explicitPath string, overrides Overrides) (Settings, error) {
	settings := Defaults(l.RepoRoot, l.GOOS)

	path, required := explicitPath, explicitPath != ""
	if !required {
		path = filepath.Join(l.RepoRoot, FileName)
	}

	if required || fileExists(path) {
		file, err := ParseFile(path)
		if err != nil {
			return Settings{}, err
		}
		settings = l.merge(settings, file)
		settings.Source = path
	}

	settings, err := overrides.apply(settings)
	if err != nil {
		return Settings{}, errors.NewConfigInvalidError("command line", err)
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, errors.NewConfigInvalidError(settingsSource(settings), err)
	}

	return settings, nil
}

// ParseFile reads and decodes a config file. Environment variables in the
// file are expanded before decoding.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigReadError(path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var file File
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, errors.NewConfigInvalidError(path, err)
	}

	if file.Schema != "" && !strings.HasPrefix(file.Schema, "benchrun.config/v") {
		return nil, errors.NewConfigInvalidError(path, fmt.Errorf("unsupported schema version: %s", file.Schema))
	}

	return &file, nil
}

// merge layers file values on top of base. Relative paths in the file
// (build_dir, manifest_dir, metrics_file) are taken relative to the
// repository root; paths given as flags stay relative to the working
// directory.
func (l *Loader) merge(base Settings, file *File) Settings {
	merged := base

	if file.WrapperPrefix != nil {
		merged.WrapperPrefix = slices.Clone(*file.WrapperPrefix)
	}
	if file.BuildDir != "" {
		merged.BuildDir = l.rootRelative(file.BuildDir)
	}
	if file.Pattern != "" {
		merged.Pattern = file.Pattern
	}
	if file.ManifestDir != "" {
		merged.ManifestDir = l.rootRelative(file.ManifestDir)
	}
	if file.MetricsFile != "" {
		merged.MetricsFile = l.rootRelative(file.MetricsFile)
	}
	if file.FailOnExit != nil {
		merged.FailOnExit = *file.FailOnExit
	}
	if file.Log.Level != "" {
		merged.LogLevel = file.Log.Level
	}
	if file.Log.Format != "" {
		merged.LogFormat = file.Log.Format
	}

	return merged
}

func (l *Loader) rootRelative(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.RepoRoot, path)
}

func settingsSource(s Settings) string {
	if s.Source != "" {
		return s.Source
	}
	return "settings"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
