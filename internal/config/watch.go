package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceInterval groups the bursts of events editors produce on save.
const debounceInterval = 250 * time.Millisecond

// Watch reloads the config file at path whenever it changes and calls
// onChange with the new settings. The directory is watched rather than the
// file, so editors that save by renaming are picked up. Watch blocks until
// ctx is done.
func Watch(ctx context.Context, path string, lookup LookupFunc, onChange func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer func(w *fsnotify.Watcher) {
		_ = w.Close()
	}(watcher)

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	reload := func() {
		cfg, err := Load(path, lookup)
		if err != nil {
			log.Printf("config reload failed: %v", err)
			return
		}
		log.Printf("config file %s changed, reloading", path)
		onChange(cfg)
	}

	timer := time.NewTimer(debounceInterval)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("config watch error: %v", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(debounceInterval)
		case <-timer.C:
			reload()
		}
	}
}
