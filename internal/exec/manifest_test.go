package exec

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	manifest := &RunManifest{
		RunID:     "run-1",
		Timestamp: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Index:     7,
		Target:    "/build/bench_sort__radix",
		Command:   []string{"/build/bench_sort__radix", "42", "/tmp/out"},
		Seed:      42,
		ExportDir: "/tmp/out",
		Outcome:   "completed",
		Duration:  "1s",
	}

	path, err := SaveManifest(manifest, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20240301_103000_007_bench_sort__radix.json"), path)

	loaded, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, manifest.Command, loaded.Command)
	assert.Equal(t, manifest.Index, loaded.Index)
	assert.True(t, manifest.Timestamp.Equal(loaded.Timestamp))
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadManifest(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "read manifest")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = LoadManifest(bad)
	assert.ErrorContains(t, err, "parse manifest")
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(a, []byte("benchmark"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("benchmark!"), 0o600))

	hashA, err := HashFile(a)
	require.NoError(t, err)
	again, err := HashFile(a)
	require.NoError(t, err)
	hashB, err := HashFile(b)
	require.NoError(t, err)

	assert.Len(t, hashA, 64)
	assert.Equal(t, hashA, again)
	assert.NotEqual(t, hashA, hashB)

	_, err = HashFile(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
