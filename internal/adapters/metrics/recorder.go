// Package metrics records run statistics as Prometheus metrics written to a textfile.
package metrics

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/core/ports"
	"go.trai.ch/zerr"
)

const namespace = "bmake"

var _ ports.Metrics = (*Recorder)(nil)

// Recorder implements ports.Metrics on a private Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry

	commands        *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	targets         *prometheus.CounterVec
	targetDuration  *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		// Labels: target, exit_code
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "command",
			Name:      "executions_total",
			Help:      "Commands executed, by target and exit code",
		}, []string{"target", "exit_code"}),
		commandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "command",
			Name:      "duration_seconds",
			Help:      "Command wall-clock duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}, []string{"target"}),
		// Labels: target, status
		targets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "target",
			Name:      "results_total",
			Help:      "Targets that reached a terminal status",
		}, []string{"target", "status"}),
		targetDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "target",
			Name:      "duration_seconds",
			Help:      "Target wall-clock duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}, []string{"target"}),
	}
}

// ObserveCommand records one executed command.
func (r *Recorder) ObserveCommand(target string, exitCode int, elapsed time.Duration) {
	r.commands.WithLabelValues(target, strconv.Itoa(exitCode)).Inc()
	r.commandDuration.WithLabelValues(target).Observe(elapsed.Seconds())
}

// ObserveTarget records a target reaching a terminal status. Targets that never ran
// are counted without a duration sample.
func (r *Recorder) ObserveTarget(target string, status domain.TargetStatus, elapsed time.Duration) {
	r.targets.WithLabelValues(target, string(status)).Inc()
	if status != domain.StatusSkipped && status != domain.StatusCached {
		r.targetDuration.WithLabelValues(target).Observe(elapsed.Seconds())
	}
}

// Registry exposes the registry for tests and embedding.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", path)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", path)
	}
	return nil
}
