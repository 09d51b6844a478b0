package health

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/felixgeelhaar/benchrun/internal/discovery"
)

func TestWrapperChecker(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on /bin/sh")
	}

	tests := []struct {
		name   string
		prefix []string
		want   Status
	}{
		{"no wrapper", nil, StatusHealthy},
		{"absolute path", []string{"/bin/sh", "-c"}, StatusHealthy},
		{"on PATH", []string{"sh"}, StatusHealthy},
		{"missing", []string{"benchrun-no-such-wrapper", "-c", "12"}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewWrapperChecker(tt.prefix).Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %v (%s), want %v", result.Status, result.Message, tt.want)
			}
		})
	}
}

func TestBuildDirChecker(t *testing.T) {
	scanner, err := discovery.NewScanner("")
	if err != nil {
		t.Fatal(err)
	}

	withTargets := t.TempDir()
	if err := os.WriteFile(filepath.Join(withTargets, "bench_a__b"), nil, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		dir  string
		want Status
	}{
		{"targets", withTargets, StatusHealthy},
		{"empty", t.TempDir(), StatusDegraded},
		{"missing", filepath.Join(t.TempDir(), "missing"), StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewBuildDirChecker(scanner, tt.dir).Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %v (%s), want %v", result.Status, result.Message, tt.want)
			}
		})
	}
}

func TestExportDirChecker(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		dir  string
		want Status
	}{
		{"exists", dir, StatusHealthy},
		{"missing", filepath.Join(dir, "missing"), StatusDegraded},
		{"file", file, StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewExportDirChecker(tt.dir).Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %v (%s), want %v", result.Status, result.Message, tt.want)
			}
		})
	}
}
