package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/core/ports"
)

func (s *runState) executeTarget(name domain.InternedString, depPrints []string) {
	// The span must end before the result is sent, so the run span never ends
	// before its children.
	res := func() domain.TargetResult {
		target, _ := s.script.TargetByName(name)

		ctx, span := s.e.tracer.Start(s.ctx, name.String())
		defer span.End()
		span.SetAttribute("bmake.target", name.String())

		res := domain.TargetResult{
			Name:    name.String(),
			Status:  domain.StatusRunning,
			Started: time.Now(),
		}
		s.e.renderer.OnTargetStart(res.Name, res.Started)

		if s.cacheEnabled() {
			res.Fingerprint = s.fingerprint(target, depPrints)
			span.SetAttribute("bmake.fingerprint", res.Fingerprint)
			if s.isCached(res.Name, res.Fingerprint) {
				span.SetAttribute("bmake.cached", true)
				res.Status = domain.StatusCached
				res.Finished = time.Now()
				return res
			}
		}

		for _, raw := range target.Commands {
			if err := ctx.Err(); err != nil {
				res.Status = domain.StatusCancelled
				res.Err = err
				break
			}

			cmd := s.runCommand(ctx, span, res.Name, raw)
			res.Commands = append(res.Commands, cmd)

			if err := ctx.Err(); err != nil {
				res.Status = domain.StatusCancelled
				res.Err = err
				break
			}
			if cmd.Err != nil {
				res.Status = domain.StatusFailed
				res.Err = cmd.Err
				span.RecordError(cmd.Err)
				break
			}
		}

		if res.Status == domain.StatusRunning {
			res.Status = domain.StatusCompleted
			s.record(res)
		}
		res.Finished = time.Now()
		return res
	}()

	s.resultsCh <- result{name: name, target: res}
}

func (s *runState) runCommand(ctx context.Context, parent ports.Span, target, raw string) domain.CommandResult {
	command := s.e.expander.Expand(raw, s.script)
	s.e.renderer.OnCommand(target, command)

	ctx, span := s.e.tracer.Start(ctx, command)
	defer span.End()
	span.SetAttribute("bmake.target", target)
	span.SetAttribute("bmake.command.raw", raw)

	var stdout, stderr bytes.Buffer
	outW := io.MultiWriter(&stdout, &streamWriter{renderer: s.e.renderer, target: target, stream: domain.Stdout}, parent)
	errW := io.MultiWriter(&stderr, &streamWriter{renderer: s.e.renderer, target: target, stream: domain.Stderr}, parent)

	started := time.Now()
	exitCode, err := s.e.runner.Run(ctx, command, s.opts.Env, outW, errW)
	res := domain.CommandResult{
		Target:   target,
		Raw:      raw,
		Command:  command,
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(started),
	}

	switch {
	case err != nil:
		res.ExitCode = domain.LaunchFailureExitCode
		res.Err = domain.NewLaunchFailure(target, command, err)
	case exitCode != 0:
		res.Err = domain.NewCommandFailure(target, command, exitCode, res.Stderr)
	}

	span.SetAttribute("bmake.exit_code", res.ExitCode)
	if res.Err != nil {
		span.RecordError(res.Err)
	}
	s.e.metrics.ObserveCommand(target, res.ExitCode, res.Duration)

	return res
}

func (s *runState) cacheEnabled() bool {
	return s.opts.UseCache && s.e.store != nil
}

func (s *runState) isCached(target, fingerprint string) bool {
	rec, err := s.e.store.Get(s.opts.Root, target)
	if err != nil {
		s.e.logger.Warn(fmt.Sprintf("run cache unavailable for %s: %v", target, err))
		return false
	}
	return rec != nil && rec.Fingerprint == fingerprint
}

// record stores a successful target in the run cache. A failed write only costs a
// cache miss next time, so it is logged and otherwise ignored.
func (s *runState) record(res domain.TargetResult) {
	if !s.cacheEnabled() {
		return
	}

	commands := make([]string, len(res.Commands))
	for i, c := range res.Commands {
		commands[i] = c.Command
	}

	err := s.e.store.Put(s.opts.Root, domain.RunRecord{
		Target:      res.Name,
		Fingerprint: res.Fingerprint,
		Commands:    commands,
		RunID:       s.report.RunID,
		Timestamp:   time.Now(),
	})
	if err != nil {
		s.e.logger.Warn(fmt.Sprintf("failed to record %s in run cache: %v", res.Name, err))
	}
}

// streamWriter forwards command output to the renderer as it is produced.
type streamWriter struct {
	renderer ports.Renderer
	target   string
	stream   domain.Stream
}

func (w *streamWriter) Write(p []byte) (int, error) {
	w.renderer.OnTargetLog(w.target, w.stream, bytes.Clone(p))
	return len(p), nil
}
