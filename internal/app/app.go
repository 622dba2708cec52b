// Package app implements the application layer for bmake.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/bmake/internal/adapters/detector"
	"go.trai.ch/bmake/internal/adapters/linear"
	"go.trai.ch/bmake/internal/adapters/metrics"
	"go.trai.ch/bmake/internal/adapters/shell"
	"go.trai.ch/bmake/internal/adapters/telemetry"
	"go.trai.ch/bmake/internal/adapters/tui"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/core/ports"
	"go.trai.ch/bmake/internal/engine/executor"
	"go.trai.ch/bmake/internal/engine/expander"
	"go.trai.ch/bmake/internal/engine/parser"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	source     ports.ScriptSource
	settings   ports.SettingsLoader
	globber    ports.Globber
	runner     ports.CommandRunner
	store      ports.RunStore
	watchers   ports.WatcherFactory
	logger     ports.Logger
	renderers  *linear.Node
	teaOptions []tea.ProgramOption
	dir        string
	stdout     io.Writer
	stderr     io.Writer
}

// New creates a new App instance.
func New(
	source ports.ScriptSource,
	settings ports.SettingsLoader,
	globber ports.Globber,
	runner ports.CommandRunner,
	store ports.RunStore,
	watchers ports.WatcherFactory,
	log ports.Logger,
) *App {
	return &App{
		source:    source,
		settings:  settings,
		globber:   globber,
		runner:    runner,
		store:     store,
		watchers:  watchers,
		logger:    log,
		renderers: linear.NewNode(),
		dir:       ".",
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
}

// WithOutput redirects progress and report output.
// This is primarily used for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithTeaOptions adds bubbletea program options for the tui output mode.
// This is primarily used for testing.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// SetLogJSON switches the logger to JSON output when it supports it.
func (a *App) SetLogJSON(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

// RunOptions configuration for the Run method.
// Zero values fall back to bmake.yaml and then to the built-in defaults.
type RunOptions struct {
	File            string
	Jobs            int
	DryRun          bool
	Cache           bool
	LegacyExpansion bool
	OutputMode      string
	Inspect         bool
	InspectOnError  bool
	TraceFile       string
	MetricsFile     string
}

// Run executes the specified targets and their dependencies.
// Without targets the default target from the settings is run.
func (a *App) Run(ctx context.Context, targetNames []string, opts RunOptions) error {
	settings, err := a.loadSettings()
	if err != nil {
		return err
	}
	return a.run(ctx, settings, targetNames, opts)
}

//nolint:cyclop // orchestration function
func (a *App) run(ctx context.Context, settings domain.Settings, targetNames []string, opts RunOptions) error {
	// 1. Load the script and plan the run
	script, plan, err := a.plan(settings, opts.File, targetNames)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(a.dir)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve project directory")
	}

	// 2. Initialize Renderer
	outputMode := opts.OutputMode
	if outputMode == "" || outputMode == detector.ModeAuto.String() {
		outputMode = settings.Output
	}
	mode := detector.ResolveMode(detector.DetectEnvironment(), outputMode)

	var renderer ports.Renderer
	var ui *tui.Renderer
	if mode == detector.ModeTUI {
		// Quitting the UI cancels the run.
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()

		teaOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		ui = tui.NewRenderer(tui.NewModel(), a.stderr, cancel, teaOpts...).WithInspect(opts.Inspect)
		if err := ui.Start(ctx); err != nil {
			return err
		}
		renderer = ui
	} else {
		renderer = a.renderers.Renderer(mode.String(), a.stdout, a.stderr)
	}
	defer func() {
		if err := renderer.Stop(); err != nil {
			a.logger.Warn(err.Error())
		}
	}()

	// 3. Initialize Telemetry
	var tracer ports.Tracer
	if opts.TraceFile != "" {
		exporter, err := telemetry.NewFileExporter(opts.TraceFile)
		if err != nil {
			return err
		}
		defer func() {
			if err := exporter.Shutdown(context.WithoutCancel(ctx)); err != nil {
				a.logger.Warn(fmt.Sprintf("failed to flush traces: %v", err))
			}
		}()
		tracer = exporter.Tracer()
	}

	var recorder *metrics.Recorder
	var observer ports.Metrics
	if opts.MetricsFile != "" {
		recorder = metrics.NewRecorder()
		observer = recorder
	}

	// 4. Initialize Executor
	runner := a.runner
	useCache := opts.Cache || settings.Cache
	if opts.DryRun {
		runner = shell.NewDryRunner()
		useCache = false
	}
	var store ports.RunStore
	if useCache {
		store = a.store
	}

	expansion := settings.Expansion
	if opts.LegacyExpansion {
		expansion = domain.ExpansionLegacy
	}

	jobs := settings.Jobs
	if opts.Jobs > 0 {
		jobs = opts.Jobs
	}

	exec := executor.New(runner, expander.New(a.globber, expansion), store, tracer, renderer, observer, a.logger)

	// 5. Execute
	_, runErr := exec.Execute(ctx, script, plan, executor.Options{
		Jobs:     jobs,
		UseCache: useCache,
		Root:     root,
		Env:      settings.EnvList(),
	})

	if runErr != nil && ui != nil && opts.InspectOnError {
		ui.WithInspect(true)
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(opts.MetricsFile); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}

	if runErr != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, runErr)
	}
	return nil
}

// plan loads the script and resolves the requested targets.
func (a *App) plan(settings domain.Settings, file string, targetNames []string) (*domain.Script, *domain.ExecutionPlan, error) {
	script, err := a.loadScript(settings, file)
	if err != nil {
		return nil, nil, err
	}

	if len(targetNames) == 0 {
		targetNames = []string{settings.Target}
	}

	plan, err := domain.Resolve(script, targetNames...)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to plan execution")
	}
	return script, plan, nil
}

func (a *App) loadSettings() (domain.Settings, error) {
	settings, err := a.settings.Load(a.dir)
	if err != nil {
		return domain.Settings{}, zerr.Wrap(err, "failed to load settings")
	}
	return settings, nil
}

func (a *App) loadScript(settings domain.Settings, file string) (*domain.Script, error) {
	if file == "" {
		file = settings.Script
	}

	path, err := a.source.Locate(a.dir, file)
	if err != nil {
		return nil, err
	}

	src, err := a.source.Load(path)
	if err != nil {
		return nil, err
	}

	script, err := parser.Parse(src.Path, src.Lines)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load script")
	}
	return script, nil
}

// Clean removes the run cache of the project.
func (a *App) Clean(_ context.Context) error {
	root, err := filepath.Abs(a.dir)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve project directory")
	}

	a.logger.Info("removing run cache...")
	if err := a.store.Clean(root); err != nil {
		return zerr.Wrap(err, "failed to remove run cache")
	}
	a.logger.Info("removed run cache")
	return nil
}
