// Package ports defines the interfaces the bmake core uses to reach the outside world.
package ports

import (
	"context"
	"io"
)

// CommandRunner runs a single, already expanded command.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type CommandRunner interface {
	// Run executes command and streams its output to stdout and stderr.
	//
	// The env parameter holds extra variables in "KEY=VALUE" form, added on top of
	// the process environment.
	//
	// A non-zero exit is reported through exitCode with a nil error. The error is
	// reserved for commands that could not be launched at all.
	Run(ctx context.Context, command string, env []string, stdout, stderr io.Writer) (exitCode int, err error)
}
