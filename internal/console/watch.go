package console

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ScriptWatcher reports writes to a single script file.
type ScriptWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan struct{}
	errs    chan error
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// WatchScript starts watching path. The parent directory is watched so that
// editors which replace the file on save are still seen.
func WatchScript(path string) (*ScriptWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	sw := &ScriptWatcher{
		path:    abs,
		watcher: w,
		changes: make(chan struct{}, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	sw.wg.Add(1)
	go sw.loop()
	return sw, nil
}

func (sw *ScriptWatcher) loop() {
	defer sw.wg.Done()
	for {
		select {
		case <-sw.done:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != sw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// Coalesce bursts; one pending notification is enough.
			select {
			case sw.changes <- struct{}{}:
			default:
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case sw.errs <- err:
			default:
			}
		}
	}
}

// Changes delivers one value per burst of writes to the script.
func (sw *ScriptWatcher) Changes() <-chan struct{} {
	return sw.changes
}

// Errors delivers watcher errors. Errors arriving while one is pending are
// dropped.
func (sw *ScriptWatcher) Errors() <-chan error {
	return sw.errs
}

// Close stops the watcher and waits for its goroutine to exit.
func (sw *ScriptWatcher) Close() error {
	var err error
	sw.once.Do(func() {
		close(sw.done)
		err = sw.watcher.Close()
		sw.wg.Wait()
	})
	return err
}

// Watch calls onChange each time the script at path is written, until ctx
// is cancelled or onChange fails.
func Watch(ctx context.Context, path string, onChange func() error) error {
	sw, err := WatchScript(path)
	if err != nil {
		return err
	}
	defer sw.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sw.Changes():
			if err := onChange(); err != nil {
				return err
			}
		case err := <-sw.Errors():
			return fmt.Errorf("watching %s: %w", path, err)
		}
	}
}
