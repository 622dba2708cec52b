package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.trai.ch/zerr"
)

// maxStderrMetadata caps how much of a failed command's stderr is attached to its error.
const maxStderrMetadata = 2048

// LaunchFailureExitCode is reported for commands the runner could not start.
const LaunchFailureExitCode = -1

// NewCommandFailure builds the error for a command that exited with a non-zero status.
func NewCommandFailure(target, command string, exitCode int, stderr string) error {
	err := zerr.Wrap(ErrCommandFailed, fmt.Sprintf("target %q failed", target))
	err = zerr.With(err, "target", target)
	err = zerr.With(err, "command", command)
	err = zerr.With(err, "exit_code", exitCode)
	if tail := stderrTail(stderr); tail != "" {
		err = zerr.With(err, "stderr", tail)
	}
	return err
}

// NewLaunchFailure builds the error for a command the runner could not start.
func NewLaunchFailure(target, command string, cause error) error {
	err := zerr.Wrap(errors.Join(ErrCommandLaunchFailed, cause), fmt.Sprintf("target %q failed", target))
	err = zerr.With(err, "target", target)
	err = zerr.With(err, "command", command)
	return zerr.With(err, "exit_code", LaunchFailureExitCode)
}

func stderrTail(stderr string) string {
	stderr = strings.TrimRight(stderr, "\r\n")
	if len(stderr) <= maxStderrMetadata {
		return stderr
	}
	start := len(stderr) - maxStderrMetadata
	for start < len(stderr) && !utf8.RuneStart(stderr[start]) {
		start++
	}
	return "..." + stderr[start:]
}
