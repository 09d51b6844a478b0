package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for one benchrun batch
type Metrics struct {
	// Discovery metrics
	TargetsDiscovered prometheus.Gauge

	// Launch metrics
	Launches       *prometheus.CounterVec
	LaunchDuration *prometheus.GaugeVec
	TargetExitCode *prometheus.GaugeVec

	// Batch metrics
	BatchDuration prometheus.Gauge
	BatchInfo     *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		TargetsDiscovered: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "benchrun_targets_discovered",
				Help: "Number of benchmark executables found in the build directory",
			},
		),
		Launches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "benchrun_launches_total",
				Help: "Total number of benchmark launches by outcome",
			},
			[]string{"outcome"},
		),
		LaunchDuration: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "benchrun_launch_duration_seconds",
				Help: "Wall-clock duration of the last launch of each target, wrapper included",
			},
			[]string{"target"},
		),
		TargetExitCode: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "benchrun_target_exit_code",
				Help: "Exit code of the last run of each target (-1 when it did not exit normally)",
			},
			[]string{"target"},
		),
		BatchDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "benchrun_batch_duration_seconds",
				Help: "Wall-clock duration of the whole batch",
			},
		),
		BatchInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "benchrun_batch_info",
				Help: "Constant 1, labelled with the batch run id and seed",
			},
			[]string{"run_id", "seed"},
		),
	}
}

// RecordDiscovery records how many targets a scan found
func (m *Metrics) RecordDiscovery(count int) {
	if m == nil {
		return
	}
	m.TargetsDiscovered.Set(float64(count))
}

// RecordLaunch records the result of one target
func (m *Metrics) RecordLaunch(target, outcome string, exitCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.Launches.WithLabelValues(outcome).Inc()
	if outcome == "skipped" {
		return
	}
	m.LaunchDuration.WithLabelValues(target).Set(duration.Seconds())
	m.TargetExitCode.WithLabelValues(target).Set(float64(exitCode))
}

// RecordBatch records batch-level information
func (m *Metrics) RecordBatch(runID, seed string, duration time.Duration) {
	if m == nil {
		return
	}
	m.BatchInfo.WithLabelValues(runID, seed).Set(1)
	m.BatchDuration.Set(duration.Seconds())
}
