package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/benchrun/internal/errors"
)

func newDefaultScanner(t *testing.T) *Scanner {
	t.Helper()
	s, err := NewScanner("")
	require.NoError(t, err)
	return s
}

func listing(t *testing.T, fsys fstest.MapFS) []fs.DirEntry {
	t.Helper()
	entries, err := fs.ReadDir(fsys, ".")
	require.NoError(t, err)
	return entries
}

func TestSelectFiltersByPattern(t *testing.T) {
	fsys := fstest.MapFS{
		"bench_sort__radix": {Mode: 0o755},
		"bench_sort__quick": {Mode: 0o755},
		"readme.txt":        {Mode: 0o644},
		"bench_x":           {Mode: 0o755},
	}

	targets := newDefaultScanner(t).Select("/build", listing(t, fsys))

	assert.ElementsMatch(t,
		[]string{"/build/bench_sort__radix", "/build/bench_sort__quick"},
		Paths(targets))
}

func TestSelectExcludesNonRegularEntries(t *testing.T) {
	fsys := fstest.MapFS{
		"bench_map__std":          {Mode: 0o755},
		"bench_link__target":      {Mode: fs.ModeSymlink | 0o777},
		"bench_dir__sub/contents": {Mode: 0o644},
		"bench_sock__x":           {Mode: fs.ModeSocket},
		"bench_dev__x":            {Mode: fs.ModeDevice},
	}

	targets := newDefaultScanner(t).Select("/build", listing(t, fsys))

	require.Len(t, targets, 1)
	assert.Equal(t, "/build/bench_map__std", targets[0].Path)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name          string
		file          string
		wantMatch     bool
		wantComponent string
		wantVariant   string
	}{
		{"basic", "bench_sort__radix", true, "sort", "radix"},
		{"underscores inside segments", "bench_absl_flat_hash_map__xxHash_xxh3", true, "absl_flat_hash_map", "xxHash_xxh3"},
		{"greedy component takes extra separator", "bench_a__b__c", true, "a__b", "c"},
		{"unanchored prefix", "old_bench_a__b", true, "a", "b"},
		{"unanchored suffix", "bench_a__b.log", true, "a", "b.log"},
		{"missing variant separator", "bench_x", false, "", ""},
		{"empty variant", "bench_a__", false, "", ""},
		{"separator run needs a non-empty component", "bench___b", false, "", ""},
		{"shortest component before separator run", "bench____b", true, "_", "b"},
		{"unrelated", "readme.txt", false, "", ""},
	}

	s := newDefaultScanner(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, ok := s.Match(tt.file)
			assert.Equal(t, tt.wantMatch, ok)
			if !tt.wantMatch {
				return
			}
			assert.Equal(t, tt.file, target.Name)
			assert.Equal(t, tt.wantComponent, target.Component)
			assert.Equal(t, tt.wantVariant, target.Variant)
		})
	}
}

func TestNewScannerRejectsInvalidPattern(t *testing.T) {
	_, err := NewScanner("bench_(")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigPattern, errors.CodeOf(err))
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestCustomPatternWithoutGroups(t *testing.T) {
	s, err := NewScanner(`^perf-`)
	require.NoError(t, err)

	target, ok := s.Match("perf-alloc")
	require.True(t, ok)
	assert.Empty(t, target.Component)
	assert.Empty(t, target.Variant)
}

func TestDiscoverOnDisk(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bench_sort__radix", "bench_sort__quick", "readme.txt", "bench_x"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0o755))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "bench_nested__dir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bench_nested__dir", "bench_deep__x"), nil, 0o755))
	if runtime.GOOS != "windows" {
		require.NoError(t, os.Symlink(filepath.Join(dir, "bench_sort__radix"), filepath.Join(dir, "bench_link__radix")))
	}

	targets, err := newDefaultScanner(t).Discover(dir)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{filepath.Join(dir, "bench_sort__radix"), filepath.Join(dir, "bench_sort__quick")},
		Paths(targets))
	for _, target := range targets {
		assert.True(t, filepath.IsAbs(target.Path), "expected absolute path, got %s", target.Path)
	}
}

func TestDiscoverRelativeDirYieldsAbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bench_a__b"), nil, 0o755))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	targets, err := newDefaultScanner(t).Discover(".")
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.True(t, filepath.IsAbs(targets[0].Path))
}

func TestDiscoverMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "build")

	targets, err := newDefaultScanner(t).Discover(missing)

	require.Error(t, err)
	assert.Nil(t, targets)
	assert.True(t, errors.IsCategory(err, errors.CategoryFilesystem))
	assert.Equal(t, errors.ErrCodeBuildDirNotFound, errors.CodeOf(err))
}

func TestDiscoverFileInsteadOfDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "build")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := newDefaultScanner(t).Discover(file)

	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFilesystem))
}

func TestDiscoverEmptyDirectory(t *testing.T) {
	targets, err := newDefaultScanner(t).Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, targets)
}
