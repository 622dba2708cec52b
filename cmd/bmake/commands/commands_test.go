package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bmake/cmd/bmake/commands"
	"go.trai.ch/bmake/internal/app"
	"go.trai.ch/bmake/internal/build"
)

type mockApp struct {
	runFunc   func(ctx context.Context, targetNames []string, opts app.RunOptions) error
	planFunc  func(ctx context.Context, targetNames []string, opts app.PlanOptions) error
	dumpFunc  func(ctx context.Context, opts app.DumpOptions) error
	watchFunc func(ctx context.Context, targetNames []string, opts app.WatchOptions) error
	cleaned   bool
	logJSON   bool
}

func (m *mockApp) Run(ctx context.Context, targetNames []string, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, targetNames, opts)
	}
	return nil
}

func (m *mockApp) Plan(ctx context.Context, targetNames []string, opts app.PlanOptions) error {
	if m.planFunc != nil {
		return m.planFunc(ctx, targetNames, opts)
	}
	return nil
}

func (m *mockApp) Dump(ctx context.Context, opts app.DumpOptions) error {
	if m.dumpFunc != nil {
		return m.dumpFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Watch(ctx context.Context, targetNames []string, opts app.WatchOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, targetNames, opts)
	}
	return nil
}

func (m *mockApp) Clean(_ context.Context) error {
	m.cleaned = true
	return nil
}

func (m *mockApp) SetLogJSON(enable bool) {
	m.logJSON = enable
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Run(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.RunOptions
		var capturedTargets []string

		mock := &mockApp{
			runFunc: func(_ context.Context, targetNames []string, opts app.RunOptions) error {
				capturedOpts = opts
				capturedTargets = targetNames
				return nil
			},
		}

		_, err := execute(t, mock, "run", "build", "test",
			"-f", "ci.bmake", "-j", "4", "--dry-run", "--cache", "--legacy-expansion",
			"-o", "quiet", "-i", "--inspect-on-error",
			"--trace-file", "trace.json", "--metrics-file", "run.prom", "--log-json")

		require.NoError(t, err)
		assert.Equal(t, []string{"build", "test"}, capturedTargets)
		assert.Equal(t, app.RunOptions{
			File:            "ci.bmake",
			Jobs:            4,
			DryRun:          true,
			Cache:           true,
			LegacyExpansion: true,
			OutputMode:      "quiet",
			Inspect:         true,
			InspectOnError:  true,
			TraceFile:       "trace.json",
			MetricsFile:     "run.prom",
		}, capturedOpts)
		assert.True(t, mock.logJSON)
	})

	t.Run("runs the default target without arguments", func(t *testing.T) {
		called := false
		mock := &mockApp{
			runFunc: func(_ context.Context, targetNames []string, opts app.RunOptions) error {
				called = true
				assert.Empty(t, targetNames)
				assert.Equal(t, "auto", opts.OutputMode)
				return nil
			},
		}

		_, err := execute(t, mock, "run")

		require.NoError(t, err)
		assert.True(t, called)
		assert.False(t, mock.logJSON)
	})

	t.Run("ci selects linear output", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, opts app.RunOptions) error {
				assert.Equal(t, "linear", opts.OutputMode)
				return nil
			},
		}

		_, err := execute(t, mock, "run", "--ci")
		require.NoError(t, err)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, _ app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		_, err := execute(t, mock, "run", "target")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Plan(t *testing.T) {
	var captured app.PlanOptions
	mock := &mockApp{
		planFunc: func(_ context.Context, targetNames []string, opts app.PlanOptions) error {
			assert.Equal(t, []string{"all"}, targetNames)
			captured = opts
			return nil
		},
	}

	_, err := execute(t, mock, "plan", "all", "--format", "yaml", "-f", "x.bmake")

	require.NoError(t, err)
	assert.Equal(t, app.PlanOptions{File: "x.bmake", Format: "yaml"}, captured)
}

func TestCommands_Dump(t *testing.T) {
	var captured app.DumpOptions
	mock := &mockApp{
		dumpFunc: func(_ context.Context, opts app.DumpOptions) error {
			captured = opts
			return nil
		},
	}

	_, err := execute(t, mock, "dump", "--file", "example.bmake")
	require.NoError(t, err)
	assert.Equal(t, "example.bmake", captured.File)

	_, err = execute(t, mock, "dump", "extra")
	require.Error(t, err)
}

func TestCommands_Watch(t *testing.T) {
	var captured app.WatchOptions
	mock := &mockApp{
		watchFunc: func(_ context.Context, targetNames []string, opts app.WatchOptions) error {
			assert.Equal(t, []string{"test"}, targetNames)
			captured = opts
			return nil
		},
	}

	_, err := execute(t, mock, "watch", "test",
		"--pattern", "**.go", "--pattern", "Bmakefile", "--debounce", "1s", "-j", "2")

	require.NoError(t, err)
	assert.Equal(t, []string{"**.go", "Bmakefile"}, captured.Patterns)
	assert.Equal(t, time.Second, captured.Debounce)
	assert.Equal(t, 2, captured.Jobs)
}

func TestCommands_Clean(t *testing.T) {
	mock := &mockApp{}

	_, err := execute(t, mock, "clean")

	require.NoError(t, err)
	assert.True(t, mock.cleaned)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "bmake version "+build.Version)
}

func TestCommands_VersionFlag(t *testing.T) {
	out, err := execute(t, &mockApp{}, "--version")

	require.NoError(t, err)
	assert.Contains(t, out, "bmake version "+build.Version)
}
