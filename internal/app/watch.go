package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/bmake/internal/adapters/detector"
	"go.trai.ch/bmake/internal/adapters/watcher"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	RunOptions
	// Patterns restrict which changed files trigger a re-run. Empty uses bmake.yaml.
	Patterns []string
	// Debounce is the quiet period before a re-run. Zero uses bmake.yaml.
	Debounce time.Duration
}

const maxReportedChanges = 3

// Watch runs the targets once and then again every time a watched file changes,
// until ctx is cancelled. Failed runs are reported and do not stop watching.
func (a *App) Watch(ctx context.Context, targetNames []string, opts WatchOptions) error {
	settings, err := a.loadSettings()
	if err != nil {
		return err
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = settings.Watch.Patterns
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = settings.Watch.Debounce
	}
	opts.OutputMode = watchOutputMode(opts.OutputMode, settings.Output)

	root, err := filepath.Abs(a.dir)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve project directory")
	}
	filter, err := watcher.NewFilter(root, patterns)
	if err != nil {
		return err
	}

	w, err := a.watchers()
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Stop()
	}()

	g, ctx := errgroup.WithContext(ctx)
	if err := w.Start(ctx, root); err != nil {
		return err
	}

	reruns := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(debounce, func(paths []string) {
		select {
		case reruns <- paths:
		default:
			// A re-run is already queued and will pick up these changes.
		}
	})
	defer debouncer.Stop()

	// Watch Routine
	g.Go(func() error {
		for event := range w.Events() {
			if filter.Match(event.Path) {
				debouncer.Add(event.Path)
			}
		}
		if ctx.Err() == nil {
			return zerr.Wrap(domain.ErrWatchFailed, "watcher stopped unexpectedly")
		}
		return nil
	})

	// Run Routine
	g.Go(func() error {
		a.runOnce(ctx, settings, targetNames, opts.RunOptions)
		a.logger.Info(fmt.Sprintf("watching %s for changes", root))

		for {
			select {
			case <-ctx.Done():
				return nil
			case paths := <-reruns:
				a.logger.Info(fmt.Sprintf("change detected: %s", describeChanges(root, paths)))
				current, err := a.loadSettings()
				if err != nil {
					a.logger.Error(err)
					continue
				}
				a.runOnce(ctx, current, targetNames, opts.RunOptions)
			}
		}
	})

	return g.Wait()
}

// runOnce runs the targets and reports errors that the renderer does not show.
func (a *App) runOnce(ctx context.Context, settings domain.Settings, targetNames []string, opts RunOptions) {
	err := a.run(ctx, settings, targetNames, opts)
	if err == nil || errors.Is(err, domain.ErrBuildExecutionFailed) {
		return
	}
	a.logger.Error(err)
}

func describeChanges(root string, paths []string) string {
	shown := make([]string, 0, maxReportedChanges)
	for _, p := range paths {
		if len(shown) == maxReportedChanges {
			break
		}
		if rel, err := filepath.Rel(root, p); err == nil {
			p = rel
		}
		shown = append(shown, p)
	}

	res := strings.Join(shown, ", ")
	if extra := len(paths) - len(shown); extra > 0 {
		res += fmt.Sprintf(" and %d more", extra)
	}
	return res
}

// watchOutputMode keeps watch on line output; the TUI owns the terminal for a single run.
func watchOutputMode(flag, configured string) string {
	if flag == "" || flag == detector.ModeAuto.String() {
		flag = configured
	}
	if detector.ResolveMode(detector.DetectEnvironment(), flag) == detector.ModeTUI {
		return detector.ModeLinear.String()
	}
	return flag
}
