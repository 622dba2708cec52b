// Package telemetry records runs as OpenTelemetry traces.
package telemetry

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

const (
	// DefaultSizeLimit is the buffered size (4KB) that forces a flush.
	DefaultSizeLimit = 4096
	// DefaultTimeLimit is the interval after which buffered output is flushed.
	DefaultTimeLimit = 50 * time.Millisecond
)

var errBatcherClosed = errors.New("output batcher is closed")

// BatchProcessor buffers command output and hands it to onFlush in batches,
// either when sizeLimit bytes are buffered or every timeLimit. Timed flushes only
// emit complete lines; Close emits whatever is left. It is safe for concurrent use.
type BatchProcessor struct {
	sizeLimit int
	timeLimit time.Duration
	onFlush   func([]byte)

	mu     sync.Mutex
	buffer bytes.Buffer
	ticker *time.Ticker
	stopCh chan struct{}
	closed bool
}

// NewBatchProcessor returns a running BatchProcessor. Non-positive limits use the
// defaults. Call Close to stop the background flusher.
func NewBatchProcessor(sizeLimit int, timeLimit time.Duration, onFlush func([]byte)) *BatchProcessor {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	bp := &BatchProcessor{
		sizeLimit: sizeLimit,
		timeLimit: timeLimit,
		onFlush:   onFlush,
		ticker:    time.NewTicker(timeLimit),
		stopCh:    make(chan struct{}),
	}
	go bp.run()
	return bp
}

// Write buffers p, flushing everything once sizeLimit is reached.
func (bp *BatchProcessor) Write(p []byte) (int, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return 0, errBatcherClosed
	}

	n, _ := bp.buffer.Write(p)
	if bp.buffer.Len() >= bp.sizeLimit {
		bp.flushLocked(bp.buffer.Len())
		bp.ticker.Reset(bp.timeLimit)
	}
	return n, nil
}

// Flush emits the complete lines buffered so far.
func (bp *BatchProcessor) Flush() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return
	}
	bp.flushLocked(bytes.LastIndexByte(bp.buffer.Bytes(), '\n') + 1)
}

// Close stops the background flusher and emits everything still buffered.
func (bp *BatchProcessor) Close() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return nil
	}
	bp.closed = true
	close(bp.stopCh)
	bp.flushLocked(bp.buffer.Len())
	return nil
}

func (bp *BatchProcessor) run() {
	for {
		select {
		case <-bp.ticker.C:
			bp.Flush()
		case <-bp.stopCh:
			bp.ticker.Stop()
			return
		}
	}
}

// flushLocked emits the first n buffered bytes. Must be called with mu held.
func (bp *BatchProcessor) flushLocked(n int) {
	if n <= 0 {
		return
	}

	data := make([]byte, n)
	copy(data, bp.buffer.Next(n))

	if bp.onFlush != nil {
		bp.onFlush(data)
	}
}
