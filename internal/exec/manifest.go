package exec

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
)

// CreateManifest creates a run manifest for audit purposes.
func CreateManifest(runID string, run RunConfig, result *Result) *RunManifest {
	manifest := &RunManifest{
		RunID:     runID,
		Timestamp: time.Now(),
		Index:     result.Index,
		Target:    result.Target.Path,
		Component: result.Target.Component,
		Variant:   result.Target.Variant,
		Command:   result.Invocation.Clone().Argv,
		Seed:      run.Seed,
		ExportDir: run.ExportDir,
		Outcome:   result.Outcome.String(),
		ExitCode:  result.ExitCode,
		Duration:  result.Duration.String(),
	}
	if result.Error != nil {
		manifest.Error = result.Error.Error()
	}

	// A target that could not be found has nothing to hash
	if hash, err := HashFile(result.Target.Path); err == nil {
		manifest.ExecutableHash = hash
	}

	return manifest
}

// SaveManifest writes a run manifest to disk and returns its path.
func SaveManifest(manifest *RunManifest, dir string) (string, error) {
	// Ensure directory exists
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("create manifest directory: %w", err)
	}

	// Index keeps files of one batch unique and ordered
	name := manifest.Target
	if name != "" {
		name = filepath.Base(name)
	}
	filename := fmt.Sprintf("%s_%03d_%s.json",
		manifest.Timestamp.Format("20060102_150405"),
		manifest.Index,
		name)
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}

	return path, nil
}

// LoadManifest reads a manifest written by SaveManifest.
func LoadManifest(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var manifest RunManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &manifest, nil
}

// HashFile computes the BLAKE3 digest of a file.
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
