package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch runs the pipeline once, then re-runs it whenever schema sources
// change. Filesystem events are debounced so an editor save burst produces
// one run. Returns when the context is cancelled.
func (o *Orchestrator) Watch(ctx context.Context) error {
	if _, err := o.Run(ctx, false); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, o.cfg.SchemaRoot); err != nil {
		return fmt.Errorf("watching %s: %w", o.cfg.SchemaRoot, err)
	}
	o.logger.WithField("root", o.cfg.SchemaRoot).Info("watching for schema changes")

	debounce := o.cfg.WatchDebounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New directories must be watched before files land in them.
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := addRecursive(watcher, event.Name); err != nil {
						o.logger.WithError(err).Warn("failed to watch new directory")
					}
					continue
				}
			}
			if filepath.Ext(event.Name) != ".proto" {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			o.logger.WithField("file", event.Name).Debug("schema change observed")
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if _, err := o.Run(ctx, false); err != nil {
				// Watch mode keeps running through bad intermediate states;
				// the next save retries.
				o.logger.WithError(err).Error("generation failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.logger.WithError(err).Warn("watcher error")
		}
	}
}

// addRecursive registers a directory tree with the watcher.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
