package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// RunFunc receives the outcome of every generation run in watch mode.
type RunFunc func(res *Result, err error)

// Watch generates once, then regenerates whenever Go sources of the loaded
// packages or the mapping file change. Bursts of events are coalesced by
// the configured debounce. It returns when ctx is done.
func (a *App) Watch(ctx context.Context, onRun RunFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]struct{})
	run := func() {
		res, err := a.Generate(ctx)
		a.addWatches(watcher, watched, res)

		if onRun != nil {
			onRun(res, err)
		}
	}

	run()

	debounce := a.cfg.Watch.Debounce()

	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			a.logger.Warn("watcher error", zap.Error(err))
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !a.relevant(event) {
				continue
			}

			a.logger.Debug("change detected", zap.String("path", event.Name), zap.Stringer("op", event.Op))

			if timer == nil {
				timer = time.NewTimer(debounce)

				continue
			}

			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}

			timer.Reset(debounce)
		case <-timerChan(timer):
			timer = nil

			run()
		}
	}
}

// watchDirs returns the directories to watch: every loaded package plus
// the directory of the mapping file.
func (a *App) watchDirs(res *Result) []string {
	var dirs []string

	if res != nil && res.Plan != nil && res.Plan.TypeGraph != nil {
		for _, pkg := range res.Plan.TypeGraph.Packages {
			if pkg.Dir != "" {
				dirs = append(dirs, pkg.Dir)
			}
		}
	} else {
		// Loading failed; watch the working directory until it recovers.
		dirs = append(dirs, a.workDir())
	}

	if a.cfg.MappingFile != "" {
		dirs = append(dirs, filepath.Dir(a.cfg.Path(a.cfg.MappingFile)))
	}

	return dirs
}

func (a *App) addWatches(watcher *fsnotify.Watcher, watched map[string]struct{}, res *Result) {
	for _, dir := range a.watchDirs(res) {
		dir = filepath.Clean(dir)
		if _, ok := watched[dir]; ok {
			continue
		}

		if err := watcher.Add(dir); err != nil {
			a.logger.Warn("watch failed", zap.String("dir", dir), zap.Error(err))

			continue
		}

		watched[dir] = struct{}{}
	}
}

// relevant reports whether an event may change the generated output.
// Generated files and tests are ignored so writing output does not loop.
func (a *App) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Clean(event.Name)

	if a.cfg.MappingFile != "" && name == filepath.Clean(a.cfg.Path(a.cfg.MappingFile)) {
		return true
	}

	base := filepath.Base(name)

	return strings.HasSuffix(base, ".go") &&
		!strings.HasSuffix(base, "_test.go") &&
		!strings.HasSuffix(base, a.cfg.Output.Suffix)
}

func (a *App) workDir() string {
	if a.cfg.Dir != "" {
		return a.cfg.Dir
	}

	return "."
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}

	return timer.C
}
