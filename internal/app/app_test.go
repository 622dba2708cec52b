package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bmake/internal/app"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/core/ports"
	"go.trai.ch/bmake/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const chainScript = `# demo
OUT = out
all: build
clean:
    rm -rf $(OUT)
build: clean
    echo building
`

type fixture struct {
	app      *app.App
	source   *mocks.MockScriptSource
	settings *mocks.MockSettingsLoader
	runner   *mocks.MockCommandRunner
	store    *mocks.MockRunStore
	watcher  *mocks.MockWatcher
	logger   *mocks.MockLogger
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		source:   mocks.NewMockScriptSource(ctrl),
		settings: mocks.NewMockSettingsLoader(ctrl),
		runner:   mocks.NewMockCommandRunner(ctrl),
		store:    mocks.NewMockRunStore(ctrl),
		watcher:  mocks.NewMockWatcher(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		stdout:   new(bytes.Buffer),
		stderr:   new(bytes.Buffer),
	}
	f.app = app.New(
		f.source,
		f.settings,
		nil,
		f.runner,
		f.store,
		func() (ports.Watcher, error) { return f.watcher, nil },
		f.logger,
	).WithOutput(f.stdout, f.stderr)
	return f
}

// withScript makes the settings and script source serve text as the default script.
func (f *fixture) withScript(text string) {
	f.withSettings(domain.DefaultSettings(), text)
}

func (f *fixture) withSettings(settings domain.Settings, text string) {
	f.settings.EXPECT().Load(".").Return(settings, nil).AnyTimes()
	f.source.EXPECT().Locate(".", settings.Script).Return("Bmakefile", nil).AnyTimes()
	f.source.EXPECT().Load("Bmakefile").DoAndReturn(func(path string) (*domain.SourceFile, error) {
		return &domain.SourceFile{Path: path, Lines: strings.Split(text, "\n")}, nil
	}).AnyTimes()
}

func exits(code int, out string) func(context.Context, string, []string, io.Writer, io.Writer) (int, error) {
	return func(_ context.Context, _ string, _ []string, stdout, _ io.Writer) (int, error) {
		_, _ = io.WriteString(stdout, out)
		return code, nil
	}
}

func TestApp_Run_DefaultTarget(t *testing.T) {
	f := newFixture(t)
	f.withScript(chainScript)

	gomock.InOrder(
		f.runner.EXPECT().Run(gomock.Any(), "rm -rf out", gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(exits(0, "")),
		f.runner.EXPECT().Run(gomock.Any(), "echo building", gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(exits(0, "building\n")),
	)

	err := f.app.Run(context.Background(), nil, app.RunOptions{OutputMode: "plain"})

	require.NoError(t, err)
	assert.Contains(t, f.stderr.String(), "Planning to run 3 target(s) for: all")
	assert.Contains(t, f.stderr.String(), "[clean] $ rm -rf out")
	assert.Contains(t, f.stdout.String(), "[build] building")
	assert.Contains(t, f.stderr.String(), "Done: 3 completed")
}

func TestApp_Run_TUIPrintsFailures(t *testing.T) {
	f := newFixture(t)
	f.withScript("a:\n    false\nb: a\n    echo hi\n")
	f.app.WithTeaOptions(
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)

	f.runner.EXPECT().Run(gomock.Any(), "false", gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(exits(1, "boom\n"))

	err := f.app.Run(context.Background(), []string{"b"}, app.RunOptions{OutputMode: "tui"})

	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	assert.Contains(t, f.stderr.String(), "FAILED: a")
	assert.Contains(t, f.stderr.String(), "boom")
	assert.Contains(t, f.stderr.String(), "Stopped: 1 failed, 1 skipped")
	assert.NotContains(t, f.stderr.String(), "FAILED: b")
	assert.Empty(t, f.stdout.String())
}

func TestApp_Run_CommandFailureStopsDependents(t *testing.T) {
	f := newFixture(t)
	f.withScript("a:\n    false\nb: a\n    echo hi\n")

	f.runner.EXPECT().Run(gomock.Any(), "false", gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(exits(1, ""))

	err := f.app.Run(context.Background(), []string{"b"}, app.RunOptions{OutputMode: "plain"})

	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	require.ErrorIs(t, err, domain.ErrCommandFailed)
	assert.Contains(t, f.stderr.String(), "[b]")
	assert.Contains(t, f.stderr.String(), "Stopped: 1 failed, 1 skipped")
}

func TestApp_Run_PlanningErrorsRunNothing(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		targets []string
		want    error
	}{
		{name: "parse error", script: "what is this\n", want: domain.ErrParse},
		{name: "cycle", script: "a: b\nb: a\n", targets: []string{"a"}, want: domain.ErrCyclicDependency},
		{name: "undefined dependency", script: "a: missing\n", targets: []string{"a"}, want: domain.ErrUndefinedTarget},
		{name: "undefined default target", script: "build:\n    make\n", want: domain.ErrUndefinedTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.withScript(tt.script)

			err := f.app.Run(context.Background(), tt.targets, app.RunOptions{OutputMode: "plain"})

			require.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, domain.ErrBuildExecutionFailed)
			assert.Empty(t, f.stderr.String())
		})
	}
}

func TestApp_Run_SettingsError(t *testing.T) {
	f := newFixture(t)
	f.settings.EXPECT().Load(".").Return(domain.Settings{}, domain.ErrSettingsInvalid)

	err := f.app.Run(context.Background(), nil, app.RunOptions{})

	require.ErrorIs(t, err, domain.ErrSettingsInvalid)
}

func TestApp_Run_ScriptNotFound(t *testing.T) {
	f := newFixture(t)
	f.settings.EXPECT().Load(".").Return(domain.DefaultSettings(), nil)
	f.source.EXPECT().Locate(".", "other.bmake").Return("", domain.ErrScriptNotFound)

	err := f.app.Run(context.Background(), nil, app.RunOptions{File: "other.bmake"})

	require.ErrorIs(t, err, domain.ErrScriptNotFound)
}

func TestApp_Run_DryRun(t *testing.T) {
	f := newFixture(t)
	f.withScript(chainScript)

	err := f.app.Run(context.Background(), []string{"build"}, app.RunOptions{
		OutputMode: "plain",
		DryRun:     true,
		Cache:      true,
	})

	require.NoError(t, err)
	assert.Contains(t, f.stderr.String(), "[clean] $ rm -rf out")
	assert.Contains(t, f.stderr.String(), "[build] $ echo building")
}

func TestApp_Run_SettingsApply(t *testing.T) {
	f := newFixture(t)
	settings := domain.DefaultSettings()
	settings.Target = "build"
	settings.Cache = true
	settings.Env = map[string]string{"MODE": "release"}
	f.withSettings(settings, "SRC = a.c b.c\nbuild:\n    cc $(patsubst .c,.o,$(SRC))\n")

	f.store.EXPECT().Get(gomock.Any(), "build").Return(nil, nil)
	f.runner.EXPECT().Run(gomock.Any(), "cc a.o b.o", []string{"MODE=release"}, gomock.Any(), gomock.Any()).
		DoAndReturn(exits(0, ""))
	f.store.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(func(root string, record domain.RunRecord) error {
		assert.True(t, filepath.IsAbs(root))
		assert.Equal(t, "build", record.Target)
		return nil
	})

	err := f.app.Run(context.Background(), nil, app.RunOptions{OutputMode: "quiet"})

	require.NoError(t, err)
	assert.Empty(t, f.stderr.String())
}

func TestApp_Run_LegacyExpansion(t *testing.T) {
	f := newFixture(t)
	f.withScript("X = 1\nall:\n    echo $(patsubst a,b,a) $(patsubst a,b,a)\n")

	f.runner.EXPECT().Run(gomock.Any(), "echo b $(patsubst a,b,a)", gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(exits(0, ""))

	err := f.app.Run(context.Background(), nil, app.RunOptions{OutputMode: "quiet", LegacyExpansion: true})

	require.NoError(t, err)
}

func TestApp_Run_TraceAndMetricsFiles(t *testing.T) {
	f := newFixture(t)
	f.withScript(chainScript)
	dir := t.TempDir()
	traceFile := filepath.Join(dir, "trace", "run.json")
	metricsFile := filepath.Join(dir, "bmake.prom")

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(exits(0, "")).Times(2)

	err := f.app.Run(context.Background(), nil, app.RunOptions{
		OutputMode:  "quiet",
		TraceFile:   traceFile,
		MetricsFile: metricsFile,
	})
	require.NoError(t, err)

	trace, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(trace), `"Name": "run"`)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "bmake_target_results_total")
	assert.Contains(t, string(prom), `target="build"`)
}

func TestApp_Clean(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Info(gomock.Any()).Times(2)
	f.store.EXPECT().Clean(gomock.Any()).DoAndReturn(func(root string) error {
		assert.True(t, filepath.IsAbs(root))
		return nil
	})

	require.NoError(t, f.app.Clean(context.Background()))
}

func TestApp_Clean_Error(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Info(gomock.Any())
	f.store.EXPECT().Clean(gomock.Any()).Return(errors.New("permission denied"))

	err := f.app.Clean(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to remove run cache")
}

func TestApp_SetLogJSON(t *testing.T) {
	f := newFixture(t)

	// The mock logger has no SetJSON method, so this must be a no-op.
	f.app.SetLogJSON(true)
}
