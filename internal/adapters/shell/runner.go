// Package shell runs commands through an embedded POSIX shell interpreter.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"go.trai.ch/bmake/internal/core/ports"
	"go.trai.ch/zerr"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

var _ ports.CommandRunner = (*Runner)(nil)

// Runner implements ports.CommandRunner with mvdan.cc/sh. Commands are parsed as
// POSIX shell and interpreted in-process with "set -e", so they behave the same on
// every platform bmake runs on.
type Runner struct {
	dir string
}

// NewRunner creates a Runner that executes in the current working directory.
func NewRunner() *Runner {
	return &Runner{}
}

// WithDir returns a copy of the runner that executes in dir.
func (r *Runner) WithDir(dir string) *Runner {
	return &Runner{dir: dir}
}

// Run parses and interprets command. A non-zero exit status, including 127 for an
// unknown program, is returned as exitCode with a nil error. Errors are returned only
// when the command cannot be parsed or the interpreter fails.
func (r *Runner) Run(
	ctx context.Context,
	command string,
	env []string,
	stdout, stderr io.Writer,
) (int, error) {
	file, err := parse(command)
	if err != nil {
		return 0, err
	}

	runner, err := interp.New(
		interp.Dir(r.dir),
		interp.Env(expand.ListEnviron(append(os.Environ(), env...)...)),
		interp.StdIO(nil, stdout, stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return 0, zerr.Wrap(err, "failed to initialize shell")
	}

	err = runner.Run(ctx, file)

	var status interp.ExitStatus
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &status):
		return int(status), nil
	default:
		return 0, zerr.With(zerr.Wrap(err, "shell interpreter failed"), "command", command)
	}
}

func parse(command string) (*syntax.File, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse command"), "command", command)
	}
	return file, nil
}
