// Package tui provides an interactive terminal UI for runs.
package tui

import (
	"time"

	"go.trai.ch/bmake/internal/core/domain"
)

// MsgPlan initializes the target list.
type MsgPlan struct {
	Roots []string
	Order []string
}

// MsgTargetStart marks a target as running.
type MsgTargetStart struct {
	Name      string
	StartTime time.Time
}

// MsgCommand echoes an expanded command into the target's log.
type MsgCommand struct {
	Name    string
	Command string
}

// MsgTargetLog carries raw command output.
type MsgTargetLog struct {
	Name string
	Data []byte
}

// MsgTargetComplete marks a target as finished.
type MsgTargetComplete struct {
	Name    string
	Status  domain.TargetStatus
	Elapsed time.Duration
	Err     error
}

// MsgRunComplete carries the one-line summary of the run.
type MsgRunComplete struct {
	Summary string
}
