package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bmake/internal/adapters/logger"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger writes to a buffer without ANSI colors.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_InfoAndWarn(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Info("watching for changes")
	lg.Warn("run cache unavailable")

	g := goldie.New(t)
	g.Assert(t, "info_warn", buf.Bytes())
}

func TestLogger_Error_ZerrChain(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(zerr.Wrap(
		zerr.Wrap(errors.New("permission denied"), "failed to read script"),
		"failed to load Bmakefile",
	))

	g := goldie.New(t)
	g.Assert(t, "error_chain_zerr", buf.Bytes())
}

func TestLogger_Error_StdlibChain(t *testing.T) {
	inner := errors.New("connection refused")
	outer := fmt.Errorf("failed to initialize: %w", inner)

	lg, buf := newTestLogger(t)
	lg.Error(outer)

	assert.Equal(t, "✗ Error: failed to initialize: connection refused\n", buf.String())
}

func TestLogger_Error_ParseError(t *testing.T) {
	err := zerr.Wrap(domain.ErrUnrecognizedLine, "line 3")
	err = zerr.With(err, "line", 3)
	err = zerr.With(err, "text", "what is this")

	lg, buf := newTestLogger(t)
	lg.Error(err)

	g := goldie.New(t)
	g.Assert(t, "error_parse", buf.Bytes())
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("hello")
	lg.Error(zerr.With(zerr.New("boom"), "target", "build"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var info map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &info))
	assert.Equal(t, "INFO", info["level"])
	assert.Equal(t, "hello", info["msg"])

	var errEntry map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &errEntry))
	assert.Equal(t, "ERROR", errEntry["level"])
	assert.Equal(t, "operation failed", errEntry["msg"])
	assert.Contains(t, errEntry, "error")
}

func TestLogger_FormatSwitching(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.SetJSON(true)
	lg.Info("json")
	lg.SetJSON(false)
	lg.Info("pretty")

	assert.Contains(t, buf.String(), `"msg":"json"`)
	assert.Contains(t, buf.String(), "\npretty\n")
}

func TestLogger_SetOutputKeepsJSONMode(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetJSON(true)

	var other bytes.Buffer
	lg.SetOutput(&other)
	lg.Info("moved")

	assert.Contains(t, other.String(), `"msg":"moved"`)
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, _ := newTestLogger(t)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			lg.Info(fmt.Sprintf("message %d", i))
		}()
		go func() {
			defer wg.Done()
			lg.SetJSON(i%2 == 0)
		}()
	}
	wg.Wait()
}
