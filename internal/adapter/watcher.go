package adapter

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
	m "stitch.dev/pkg/stitch/internal/model"
)

// FileWatcher reports external modifications to files the session is editing,
// so the interactive loop can warn that its context has gone stale.
type FileWatcher interface {
	Watch(path m.Path) error
	Unwatch(path m.Path) error
	Events() <-chan m.Path
	Close() error
}

type fsnotifyWatcher struct {
	watcher *fsnotify.Watcher
	events  chan m.Path
	done    chan struct{}
}

// NewFileWatcher constructs an fsnotify-backed FileWatcher.
func NewFileWatcher() (FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &fsnotifyWatcher{
		watcher: w,
		events:  make(chan m.Path, 16),
		done:    make(chan struct{}),
	}

	go fw.loop()

	return fw, nil
}

func (fw *fsnotifyWatcher) loop() {
	defer close(fw.events)

	for {
		select {
		case <-fw.done:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				select {
				case fw.events <- m.Path(event.Name):
				default:
					// Drop when the consumer is behind; staleness is advisory.
				}
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}

			slog.Warn("file watcher error", "error", err)
		}
	}
}

// Watch implements FileWatcher.
func (fw *fsnotifyWatcher) Watch(path m.Path) error {
	return fw.watcher.Add(string(path))
}

// Unwatch implements FileWatcher.
func (fw *fsnotifyWatcher) Unwatch(path m.Path) error {
	return fw.watcher.Remove(string(path))
}

// Events implements FileWatcher.
func (fw *fsnotifyWatcher) Events() <-chan m.Path {
	return fw.events
}

// Close implements FileWatcher.
func (fw *fsnotifyWatcher) Close() error {
	close(fw.done)
	return fw.watcher.Close()
}
