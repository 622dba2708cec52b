package linear

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/core/ports"
)

var _ ports.Renderer = (*QuietRenderer)(nil)

// QuietRenderer prints nothing for successful targets. When a target fails, its
// captured output and the error are written to stderr.
type QuietRenderer struct {
	stderr io.Writer

	mu      sync.Mutex
	outputs map[string]*bytes.Buffer
}

// NewQuietRenderer creates a new QuietRenderer. A nil writer defaults to os.Stderr.
func NewQuietRenderer(stderr io.Writer) *QuietRenderer {
	if stderr == nil {
		stderr = os.Stderr
	}
	return &QuietRenderer{
		stderr:  stderr,
		outputs: make(map[string]*bytes.Buffer),
	}
}

// OnPlanEmit does nothing.
func (q *QuietRenderer) OnPlanEmit(_, _ []string) {}

// OnTargetStart does nothing.
func (q *QuietRenderer) OnTargetStart(_ string, _ time.Time) {}

// OnCommand records the command so a failure shows what ran.
func (q *QuietRenderer) OnCommand(target, command string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	buf := q.bufferLocked(target)
	if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	buf.WriteString("$ " + command + "\n")
}

// OnTargetLog captures the output of both streams.
func (q *QuietRenderer) OnTargetLog(target string, _ domain.Stream, data []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.bufferLocked(target).Write(data)
}

// OnTargetComplete prints the captured output of a failed target and drops the rest.
func (q *QuietRenderer) OnTargetComplete(target string, status domain.TargetStatus, _ time.Duration, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	buf := q.outputs[target]
	delete(q.outputs, target)
	if status != domain.StatusFailed {
		return
	}

	if buf != nil {
		for line := range bytes.Lines(buf.Bytes()) {
			_, _ = fmt.Fprintf(q.stderr, "[%s] %s\n", target, bytes.TrimRight(line, "\r\n"))
		}
	}
	_, _ = fmt.Fprintf(q.stderr, "[%s] Failed: %v\n", target, err)
}

// OnRunComplete does nothing.
func (q *QuietRenderer) OnRunComplete(_ *domain.ExecutionReport) {}

// Stop does nothing.
func (q *QuietRenderer) Stop() error {
	return nil
}

func (q *QuietRenderer) bufferLocked(target string) *bytes.Buffer {
	buf, ok := q.outputs[target]
	if !ok {
		buf = new(bytes.Buffer)
		q.outputs[target] = buf
	}
	return buf
}
