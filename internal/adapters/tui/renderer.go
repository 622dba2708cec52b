package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/bmake/internal/adapters/linear"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer wraps the Bubble Tea program as a ports.Renderer.
// Quitting the program cancels the run through cancel.
type Renderer struct {
	program *tea.Program
	model   *Model
	cancel  context.CancelFunc
	stderr  io.Writer
	inspect bool
	errCh   chan error

	mu      sync.Mutex
	started bool
	stopped bool
	summary string
}

// NewRenderer creates a new TUI renderer.
// Failed targets are printed to stderr once the program exits.
func NewRenderer(model *Model, stderr io.Writer, cancel context.CancelFunc, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		cancel:  cancel,
		stderr:  stderr,
		errCh:   make(chan error, 1),
	}
}

// WithInspect keeps the UI open after the run until the user quits.
func (r *Renderer) WithInspect(enable bool) *Renderer {
	r.inspect = enable
	return r
}

// Start launches the program in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.started = true
	go func() {
		_, err := r.program.Run()
		if r.cancel != nil {
			r.cancel()
		}
		r.errCh <- err
	}()
	return nil
}

// OnPlanEmit initializes the target list.
func (r *Renderer) OnPlanEmit(roots, order []string) {
	r.program.Send(MsgPlan{Roots: roots, Order: order})
}

// OnTargetStart marks a target as running.
func (r *Renderer) OnTargetStart(target string, startTime time.Time) {
	r.program.Send(MsgTargetStart{Name: target, StartTime: startTime})
}

// OnCommand echoes a command into the target's log.
func (r *Renderer) OnCommand(target, command string) {
	r.program.Send(MsgCommand{Name: target, Command: command})
}

// OnTargetLog forwards command output.
func (r *Renderer) OnTargetLog(target string, _ domain.Stream, data []byte) {
	// The program may process the message after the caller reuses data.
	r.program.Send(MsgTargetLog{Name: target, Data: append([]byte(nil), data...)})
}

// OnTargetComplete records a target's final status.
func (r *Renderer) OnTargetComplete(target string, status domain.TargetStatus, elapsed time.Duration, err error) {
	r.program.Send(MsgTargetComplete{Name: target, Status: status, Elapsed: elapsed, Err: err})
}

// OnRunComplete shows the summary of the run.
func (r *Renderer) OnRunComplete(report *domain.ExecutionReport) {
	summary := linear.Summary(report)

	r.mu.Lock()
	r.summary = summary
	r.mu.Unlock()

	r.program.Send(MsgRunComplete{Summary: summary})
}

// Stop quits the program, or waits for the user to quit in inspect mode,
// then prints the summary and the output of failed targets.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	if !r.started || r.stopped {
		r.mu.Unlock()
		return nil
	}
	r.stopped = true
	r.mu.Unlock()

	if !r.inspect {
		r.program.Quit()
	}

	err := <-r.errCh
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		err = nil
	}

	r.printReport()

	if err != nil {
		return zerr.Wrap(err, "terminal UI failed")
	}
	return nil
}

func (r *Renderer) printReport() {
	for _, node := range r.model.Failed() {
		_, _ = fmt.Fprintln(r.stderr, failureTitleStyle.Render("FAILED: "+node.Name))
		if content := node.Term.Content(); content != "" {
			_, _ = fmt.Fprintln(r.stderr, content)
		}
		if node.Err != nil {
			_, _ = fmt.Fprintf(r.stderr, "Error: %v\n", node.Err)
		}
	}

	r.mu.Lock()
	summary := r.summary
	r.mu.Unlock()

	if summary != "" {
		_, _ = fmt.Fprintln(r.stderr, summary)
	}
}
