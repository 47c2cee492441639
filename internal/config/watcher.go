package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of write events, which editors
// produce when saving a file.
const debounceDelay = 100 * time.Millisecond

// Watch monitors a configuration file and invokes fn with the freshly
// loaded configuration after each change. The parent directory is
// watched so atomic rename-style saves are seen. Load errors are
// reported through errFn (which may be nil). Watch blocks until the
// context is canceled.
func Watch(ctx context.Context, path string, fn func(Config), errFn func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(debounceDelay)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			cfg, err := Load(path)
			if err != nil {
				if errFn != nil {
					errFn(err)
				}
				continue
			}
			fn(cfg)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}
