package config

import (
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/benchrun/internal/errors"
)

// installDirs are directories a binary is commonly installed into below
// the repository root.
var installDirs = map[string]bool{
	"bin":   true,
	"tools": true,
}

// RepoRootFor derives the repository root from an executable path. A binary
// in <root>/bin or <root>/tools maps to <root>; anything else maps to the
// binary's own directory.
func RepoRootFor(executable string) string {
	dir := filepath.Dir(executable)
	if installDirs[filepath.Base(dir)] {
		return filepath.Dir(dir)
	}
	return dir
}

// DetectRepoRoot resolves the repository root from the running executable,
// following symlinks so an installed link still points into the checkout.
func DetectRepoRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.NewRepoRootError(err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", errors.NewRepoRootError(err)
	}
	return RepoRootFor(resolved), nil
}
