// Package health runs preflight checks on the environment a benchmark batch
// depends on: the wrapper tool, the build directory and the export directory.
//
// Checks never change what the batch does. A missing wrapper still produces
// one launch failure per target; the checks only say so up front.
//
//	manager := health.NewManager()
//	manager.AddChecker(health.NewWrapperChecker(prefix))
//	manager.AddChecker(health.NewBuildDirChecker(scanner, dir))
//
//	for _, r := range manager.Check(ctx) {
//	    log.Info("preflight", "check", r.Name, "status", r.Status)
//	}
package health

import (
	"context"
	"time"
)

// Checker defines the interface for health checks.
type Checker interface {
	// Name returns the unique name of this check, lowercase with hyphens.
	Name() string

	// Check performs the check. It should respect the context deadline.
	Check(ctx context.Context) *Result
}

// Status represents the health check status.
type Status string

const (
	// StatusHealthy indicates the checked component is ready.
	StatusHealthy Status = "healthy"

	// StatusDegraded indicates the batch can run but something looks off,
	// such as an empty build directory.
	StatusDegraded Status = "degraded"

	// StatusUnhealthy indicates the batch will fail or every launch will.
	StatusUnhealthy Status = "unhealthy"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Result represents the result of a health check.
type Result struct {
	// Name is the checker that produced the result, set by the Manager.
	Name string

	Status  Status
	Message string

	// Details contains structured information such as resolved paths.
	Details map[string]interface{}

	// Latency is how long the check took to complete.
	Latency time.Duration
}

// NewResult creates a new health check result with the given status and message.
func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the result and returns the result for chaining.
func (r *Result) WithDetail(key string, value interface{}) *Result {
	r.Details[key] = value
	return r
}

// WithLatency sets the latency and returns the result for chaining.
func (r *Result) WithLatency(latency time.Duration) *Result {
	r.Latency = latency
	return r
}

// Healthy creates a healthy result with the given message.
func Healthy(message string) *Result {
	return NewResult(StatusHealthy, message)
}

// Degraded creates a degraded result with the given message.
func Degraded(message string) *Result {
	return NewResult(StatusDegraded, message)
}

// Unhealthy creates an unhealthy result with the given message.
func Unhealthy(message string) *Result {
	return NewResult(StatusUnhealthy, message)
}
