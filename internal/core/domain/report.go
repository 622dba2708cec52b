package domain

import (
	"time"

	"github.com/google/uuid"
)

// TargetStatus is the lifecycle state of a target within one run.
type TargetStatus string

const (
	// StatusPending means the target has not started yet.
	StatusPending TargetStatus = "pending"
	// StatusRunning means the target's commands are executing.
	StatusRunning TargetStatus = "running"
	// StatusCompleted means every command of the target succeeded.
	StatusCompleted TargetStatus = "completed"
	// StatusFailed means a command of the target failed or could not be launched.
	StatusFailed TargetStatus = "failed"
	// StatusSkipped means the target never started because the run stopped earlier.
	StatusSkipped TargetStatus = "skipped"
	// StatusCached means the target was satisfied by a previous successful run.
	StatusCached TargetStatus = "cached"
	// StatusCancelled means the run was cancelled while the target was executing.
	StatusCancelled TargetStatus = "cancelled"
)

// IsDone reports whether the status counts as a satisfied dependency.
func (s TargetStatus) IsDone() bool {
	return s == StatusCompleted || s == StatusCached
}

// IsTerminal reports whether the status can no longer change during the run.
func (s TargetStatus) IsTerminal() bool {
	return s != StatusPending && s != StatusRunning
}

// Stream identifies the output stream a chunk of command output came from.
type Stream uint8

const (
	// Stdout is the command's standard output.
	Stdout Stream = iota
	// Stderr is the command's standard error.
	Stderr
)

// CommandResult records one executed command.
type CommandResult struct {
	Target string
	// Raw is the command as written in the script.
	Raw string
	// Command is the command after expansion, as handed to the runner.
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	// Err is set when the command failed or could not be launched.
	Err error
}

// Succeeded reports whether the command ran and exited with status 0.
func (r CommandResult) Succeeded() bool {
	return r.Err == nil && r.ExitCode == 0
}

// TargetResult records the outcome of one target of the plan.
type TargetResult struct {
	Name        string
	Status      TargetStatus
	Commands    []CommandResult
	Started     time.Time
	Finished    time.Time
	Fingerprint string
	Err         error
}

// Duration returns how long the target ran, or zero if it never started.
func (r TargetResult) Duration() time.Duration {
	if r.Started.IsZero() || r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// ExecutionReport is the outcome of executing a plan.
type ExecutionReport struct {
	RunID    string
	Roots    []string
	Targets  []TargetResult
	Started  time.Time
	Finished time.Time

	index map[string]int
}

// NewExecutionReport returns a report with every planned target pending.
func NewExecutionReport(plan *ExecutionPlan) *ExecutionReport {
	r := &ExecutionReport{
		RunID:   uuid.NewString(),
		Roots:   Strings(plan.Roots),
		Targets: make([]TargetResult, len(plan.Order)),
		Started: time.Now(),
		index:   make(map[string]int, len(plan.Order)),
	}
	for i, name := range plan.Order {
		r.Targets[i] = TargetResult{Name: name.String(), Status: StatusPending}
		r.index[name.String()] = i
	}
	return r
}

// Target returns a pointer to the result for name, or nil if name is not in the plan.
func (r *ExecutionReport) Target(name string) *TargetResult {
	i, ok := r.index[name]
	if !ok {
		return nil
	}
	return &r.Targets[i]
}

// Commands returns every executed command across all targets, in execution order per target.
func (r *ExecutionReport) Commands() []CommandResult {
	var res []CommandResult
	for _, t := range r.Targets {
		res = append(res, t.Commands...)
	}
	return res
}

// FailedCommand returns the command that stopped the run, if any.
func (r *ExecutionReport) FailedCommand() (CommandResult, bool) {
	for _, t := range r.Targets {
		for _, c := range t.Commands {
			if !c.Succeeded() {
				return c, true
			}
		}
	}
	return CommandResult{}, false
}

// Count returns how many targets ended with the given status.
func (r *ExecutionReport) Count(status TargetStatus) int {
	n := 0
	for _, t := range r.Targets {
		if t.Status == status {
			n++
		}
	}
	return n
}

// MarkRemaining sets every non-terminal target to status.
func (r *ExecutionReport) MarkRemaining(status TargetStatus) {
	for i := range r.Targets {
		if !r.Targets[i].Status.IsTerminal() {
			r.Targets[i].Status = status
		}
	}
}

// RunRecord is the persisted outcome of a successful target, used by the run cache.
type RunRecord struct {
	Target      string    `json:"target"`
	Fingerprint string    `json:"fingerprint"`
	Commands    []string  `json:"commands"`
	RunID       string    `json:"run_id"`
	Timestamp   time.Time `json:"timestamp"`
}
