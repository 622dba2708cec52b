package ports

import (
	"time"

	"go.trai.ch/bmake/internal/core/domain"
)

// Renderer presents the progress of a run.
// Implementations must be safe for concurrent use; with --jobs targets report in parallel.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnPlanEmit is called once with the requested roots and the full plan order.
	OnPlanEmit(roots, order []string)

	// OnTargetStart is called when a target begins executing.
	OnTargetStart(target string, startTime time.Time)

	// OnCommand is called with the expanded command right before it runs.
	OnCommand(target, command string)

	// OnTargetLog is called with raw output of a running command.
	// data may contain partial lines.
	OnTargetLog(target string, stream domain.Stream, data []byte)

	// OnTargetComplete is called once a target reaches a terminal status.
	OnTargetComplete(target string, status domain.TargetStatus, elapsed time.Duration, err error)

	// OnRunComplete is called with the final report.
	OnRunComplete(report *domain.ExecutionReport)

	// Stop flushes buffered output.
	Stop() error
}
