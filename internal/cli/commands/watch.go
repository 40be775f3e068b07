package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/leaplint/internal/engine"
)

// watchDebounce coalesces bursts of writes from editors.
var watchDebounce = 100 * time.Millisecond

// watchCheck checks path, then re-checks whenever path or the rules file
// changes, until ctx is cancelled. A failed first check is returned; later
// failures are reported and the watch continues.
func watchCheck(ctx context.Context, cc *CommandContext, eng *engine.Engine, path string, opts *CheckOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace files, so watch the parent directories and filter by name.
	targets := map[string]bool{}
	for _, p := range []string{path, cc.Cfg.RulesFile} {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = true
	}
	dirs := map[string]bool{}
	for t := range targets {
		dir := filepath.Dir(t)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	run := func() {
		res, err := checkOnce(ctx, cc, eng, path, opts)
		if err != nil {
			if ctx.Err() == nil {
				cc.Renderer.Error(err.Error())
			}
			return
		}
		if err := renderCheckResult(cc.Renderer, res); err != nil {
			cc.Logger.Error("failed to render result", "error", err)
		}
	}

	res, err := checkOnce(ctx, cc, eng, path, opts)
	if err != nil {
		return err
	}
	if err := renderCheckResult(cc.Renderer, res); err != nil {
		return err
	}
	cc.Renderer.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", path))

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !targets[abs] {
				continue
			}
			cc.Logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			debounce = time.After(watchDebounce)

		case <-debounce:
			debounce = nil
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cc.Logger.Error("watcher error", "error", err)
		}
	}
}
