package shell

import (
	"context"
	"io"

	"go.trai.ch/bmake/internal/core/ports"
)

var _ ports.CommandRunner = DryRunner{}

// DryRunner checks that commands parse but never runs them.
type DryRunner struct{}

// NewDryRunner creates a DryRunner.
func NewDryRunner() DryRunner {
	return DryRunner{}
}

// Run reports success for every command that parses.
func (DryRunner) Run(_ context.Context, command string, _ []string, _, _ io.Writer) (int, error) {
	if _, err := parse(command); err != nil {
		return 0, err
	}
	return 0, nil
}
