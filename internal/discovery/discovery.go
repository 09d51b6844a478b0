// Package discovery locates benchmark executables in a build output directory.
//
// Discovery is split in two: Select is a pure filter over a directory
// listing, and Scanner.Discover reads the listing from disk.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/felixgeelhaar/benchrun/internal/errors"
)

// DefaultPattern matches bench_<component>__<variant>. The search is
// unanchored and greedy, so bench_a__b__c yields component "a__b".
const DefaultPattern = `bench_(.+)__(.+)`

// Target is one discovered benchmark executable.
type Target struct {
	// Path is the absolute path of the executable.
	Path string
	// Name is the file name.
	Name string
	// Component and Variant are the first two capture groups of the
	// pattern, empty when the pattern captures fewer.
	Component string
	Variant   string
}

// Label returns a short identifier for logs and metrics.
func (t Target) Label() string {
	return t.Name
}

// Scanner finds targets whose file name matches Pattern.
type Scanner struct {
	Pattern *regexp.Regexp
}

// NewScanner compiles pattern, falling back to DefaultPattern when empty.
func NewScanner(pattern string) (*Scanner, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.NewPatternInvalidError(pattern, err)
	}
	return &Scanner{Pattern: re}, nil
}

// Discover lists dir non-recursively and returns the matching regular files
// in listing order. A missing or unreadable dir is a filesystem error.
func (s *Scanner) Discover(dir string) ([]Target, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.NewBuildDirUnreadableError(dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewBuildDirNotFoundError(abs, err)
		}
		return nil, errors.NewBuildDirUnreadableError(abs, err)
	}
	if !info.IsDir() {
		return nil, errors.NewBuildDirNotDirError(abs)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, errors.NewBuildDirUnreadableError(abs, err)
	}

	return s.Select(abs, entries), nil
}

// Select filters a listing of dir down to matching regular files. Entry
// types come from the listing itself (lstat semantics), so symlinks,
// directories, sockets and devices never match.
func (s *Scanner) Select(dir string, entries []fs.DirEntry) []Target {
	var targets []Target
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		target, ok := s.Match(entry.Name())
		if !ok {
			continue
		}
		target.Path = filepath.Join(dir, entry.Name())
		targets = append(targets, target)
	}
	return targets
}

// Match reports whether name matches the pattern and splits it into
// component and variant.
func (s *Scanner) Match(name string) (Target, bool) {
	groups := s.Pattern.FindStringSubmatch(name)
	if groups == nil {
		return Target{}, false
	}

	target := Target{Name: name}
	if len(groups) > 1 {
		target.Component = groups[1]
	}
	if len(groups) > 2 {
		target.Variant = groups[2]
	}
	return target, true
}

// Paths returns the executable paths of targets in order.
func Paths(targets []Target) []string {
	paths := make([]string, 0, len(targets))
	for _, t := range targets {
		paths = append(paths, t.Path)
	}
	return paths
}
