// Package linear provides synchronous, line-buffered renderers for terminals and CI logs.
package linear

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/core/ports"
	"go.trai.ch/bmake/internal/ui/output"
	"go.trai.ch/bmake/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer with chronological, target-prefixed lines.
// Command output goes to stdout or stderr matching the stream it came from;
// progress messages go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	buffers map[bufferKey]*bytes.Buffer
}

type bufferKey struct {
	target string
	stream domain.Stream
}

// NewRenderer creates a new Renderer that colors CI logs unless NO_COLOR is set.
// Nil writers default to the process streams.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	return NewRendererWithProfile(stdout, stderr, output.ColorProfileANSI)
}

// NewRendererWithProfile creates a new Renderer using the color profile returned by profileFn.
func NewRendererWithProfile(stdout, stderr io.Writer, profileFn func() termenv.Profile) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.NewWithProfile(stderr, profileFn),
		buffers: make(map[bufferKey]*bytes.Buffer),
	}
}

// OnPlanEmit prints the planned targets.
func (r *Renderer) OnPlanEmit(roots, order []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "Planning to run %d target(s) for: %s\n",
		len(order), strings.Join(roots, " "))
}

// OnTargetStart prints a target start message.
func (r *Renderer) OnTargetStart(target string, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", r.prefix(target))
}

// OnCommand echoes the expanded command.
func (r *Renderer) OnCommand(target, command string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.flushLocked(target)
	cmd := r.output.String("$ " + command).Bold().String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s\n", r.prefix(target), cmd)
}

// OnTargetLog buffers output and prints complete lines with the target prefix.
func (r *Renderer) OnTargetLog(target string, stream domain.Stream, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := bufferKey{target: target, stream: stream}
	buf, ok := r.buffers[key]
	if !ok {
		buf = new(bytes.Buffer)
		r.buffers[key] = buf
	}
	buf.Write(data)

	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line, keep it for the next chunk.
			rest := new(bytes.Buffer)
			rest.Write(line)
			r.buffers[key] = rest
			break
		}
		r.printLineLocked(key, line)
	}
}

// OnTargetComplete flushes the target's partial lines and prints its status.
func (r *Renderer) OnTargetComplete(target string, status domain.TargetStatus, elapsed time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.flushLocked(target)

	icon, color := style.ForStatus(status)
	symbol := r.output.String(icon).Foreground(r.output.Color(string(color))).String()
	prefix := r.prefix(target)
	elapsed = elapsed.Round(time.Millisecond)

	switch status {
	case domain.StatusCompleted:
		_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, symbol, elapsed)
	case domain.StatusCached:
		_, _ = fmt.Fprintf(r.stderr, "%s %s Up to date\n", prefix, symbol)
	case domain.StatusFailed:
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, elapsed, err)
	case domain.StatusCancelled:
		_, _ = fmt.Fprintf(r.stderr, "%s %s Cancelled after %v\n", prefix, symbol, elapsed)
	default:
		_, _ = fmt.Fprintf(r.stderr, "%s %s Skipped\n", prefix, symbol)
	}
}

// OnRunComplete prints a one-line summary of the run.
func (r *Renderer) OnRunComplete(report *domain.ExecutionReport) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintln(r.stderr, Summary(report))
}

// Stop flushes all remaining buffers.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.buffers {
		r.flushKeyLocked(key)
	}
	return nil
}

func (r *Renderer) prefix(target string) string {
	return r.output.String(fmt.Sprintf("[%s]", target)).Faint().String()
}

func (r *Renderer) flushLocked(target string) {
	r.flushKeyLocked(bufferKey{target: target, stream: domain.Stdout})
	r.flushKeyLocked(bufferKey{target: target, stream: domain.Stderr})
}

func (r *Renderer) flushKeyLocked(key bufferKey) {
	buf, ok := r.buffers[key]
	if !ok {
		return
	}
	if buf.Len() > 0 {
		r.printLineLocked(key, buf.Bytes())
	}
	delete(r.buffers, key)
}

func (r *Renderer) printLineLocked(key bufferKey, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}

	w := r.stdout
	if key.stream == domain.Stderr {
		w = r.stderr
	}
	_, _ = fmt.Fprintf(w, "[%s] %s\n", key.target, line)
}

// Summary describes the outcome of a run in one line.
func Summary(report *domain.ExecutionReport) string {
	var parts []string
	for _, status := range []domain.TargetStatus{
		domain.StatusCompleted,
		domain.StatusCached,
		domain.StatusFailed,
		domain.StatusCancelled,
		domain.StatusSkipped,
	} {
		if n := report.Count(status); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing to do")
	}

	verdict := "Done"
	if report.Count(domain.StatusFailed) > 0 || report.Count(domain.StatusCancelled) > 0 {
		verdict = "Stopped"
	}

	elapsed := time.Duration(0)
	if !report.Finished.IsZero() {
		elapsed = report.Finished.Sub(report.Started).Round(time.Millisecond)
	}
	return fmt.Sprintf("%s: %s in %v", verdict, strings.Join(parts, ", "), elapsed)
}
