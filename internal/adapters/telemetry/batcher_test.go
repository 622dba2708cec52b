package telemetry_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bmake/internal/adapters/telemetry"
)

type flushRecorder struct {
	mu      sync.Mutex
	flushes []string
}

func (r *flushRecorder) record(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes = append(r.flushes, string(data))
}

func (r *flushRecorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.flushes...)
}

func TestBatchProcessor_FlushEmitsCompleteLines(t *testing.T) {
	rec := &flushRecorder{}
	bp := telemetry.NewBatchProcessor(0, time.Hour, rec.record)

	_, err := bp.Write([]byte("one\ntw"))
	require.NoError(t, err)
	bp.Flush()
	assert.Equal(t, []string{"one\n"}, rec.get())

	bp.Flush()
	assert.Equal(t, []string{"one\n"}, rec.get(), "a partial line is held back")

	require.NoError(t, bp.Close())
	assert.Equal(t, []string{"one\n", "tw"}, rec.get())
}

func TestBatchProcessor_SizeLimit(t *testing.T) {
	rec := &flushRecorder{}
	bp := telemetry.NewBatchProcessor(4, time.Hour, rec.record)
	defer func() { _ = bp.Close() }()

	_, _ = bp.Write([]byte("ab"))
	assert.Empty(t, rec.get())

	_, _ = bp.Write([]byte("cdef"))
	assert.Equal(t, []string{"abcdef"}, rec.get())
}

func TestBatchProcessor_TimeLimit(t *testing.T) {
	rec := &flushRecorder{}
	bp := telemetry.NewBatchProcessor(0, 5*time.Millisecond, rec.record)
	defer func() { _ = bp.Close() }()

	_, _ = bp.Write([]byte("tick\n"))

	assert.Eventually(t, func() bool {
		return len(rec.get()) == 1
	}, time.Second, time.Millisecond)
}

func TestBatchProcessor_Closed(t *testing.T) {
	rec := &flushRecorder{}
	bp := telemetry.NewBatchProcessor(0, time.Hour, rec.record)

	require.NoError(t, bp.Close())
	require.NoError(t, bp.Close(), "closing twice is harmless")

	_, err := bp.Write([]byte("late"))
	assert.Error(t, err)
	bp.Flush()
	assert.Empty(t, rec.get())
}
