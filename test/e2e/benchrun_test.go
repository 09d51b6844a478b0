//go:build e2e
// +build e2e

package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// buildBenchrun compiles the CLI into <repo>/bin so the repository root is
// derived from the install location, as in a real checkout.
func buildBenchrun(t *testing.T, repo string) string {
	t.Helper()

	projectRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}

	bin := filepath.Join(repo, "bin", "benchrun")
	buildCmd := exec.Command("go", "build", "-o", bin, "./cmd/benchrun")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build benchrun: %v\n%s", err, output)
	}
	return bin
}

func writeBenchmark(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestBatchEndToEnd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("benchmarks are shell scripts")
	}

	repo := t.TempDir()
	build := filepath.Join(repo, "build")
	exportDir := filepath.Join(repo, "out")
	for _, dir := range []string{build, exportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}

	writeBenchmark(t, build, "bench_sort__radix", `echo "$1" > "$2/radix.seed"`)
	writeBenchmark(t, build, "bench_sort__quick", `echo "$1" > "$2/quick.seed"; exit 4`)
	writeBenchmark(t, build, "readme.txt", "exit 0")

	bin := buildBenchrun(t, repo)

	t.Run("usage without arguments", func(t *testing.T) {
		out, err := exec.Command(bin).Output()
		if code := exitCode(err); code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}
		if !strings.Contains(string(out), "Usage:") {
			t.Errorf("expected usage on stdout, got:\n%s", out)
		}
	})

	t.Run("runs every benchmark", func(t *testing.T) {
		out, err := exec.Command(bin, "--no-wrapper", "42", exportDir).Output()
		if code := exitCode(err); code != 0 {
			t.Fatalf("exit code = %d, want 0\n%s", code, out)
		}

		for _, name := range []string{"radix.seed", "quick.seed"} {
			data, err := os.ReadFile(filepath.Join(exportDir, name))
			if err != nil {
				t.Fatalf("benchmark did not write %s: %v", name, err)
			}
			if strings.TrimSpace(string(data)) != "42" {
				t.Errorf("%s = %q, want 42", name, data)
			}
		}
		if !strings.Contains(string(out), "Will export test data to "+exportDir) {
			t.Errorf("missing announcement in:\n%s", out)
		}
		if !strings.Contains(string(out), "exited with code 4") {
			t.Errorf("missing non-zero exit report in:\n%s", out)
		}
	})

	t.Run("fail on exit", func(t *testing.T) {
		err := exec.Command(bin, "--no-wrapper", "--fail-on-exit", "1", exportDir).Run()
		if code := exitCode(err); code != 2 {
			t.Errorf("exit code = %d, want 2", code)
		}
	})

	t.Run("missing wrapper is a launch failure", func(t *testing.T) {
		err := exec.Command(bin, "--wrapper", "benchrun-no-such-wrapper", "1", exportDir).Run()
		if code := exitCode(err); code != 2 {
			t.Errorf("exit code = %d, want 2", code)
		}
	})

	t.Run("invalid seed", func(t *testing.T) {
		err := exec.Command(bin, "x", exportDir).Run()
		if code := exitCode(err); code != 3 {
			t.Errorf("exit code = %d, want 3", code)
		}
	})

	t.Run("missing build dir", func(t *testing.T) {
		err := exec.Command(bin, "--build-dir", filepath.Join(repo, "nope"), "1", exportDir).Run()
		if code := exitCode(err); code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
	})
}
