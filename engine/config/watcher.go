package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/softraster/engine/core"
)

/**
 * @brief Reloads a configuration file into a Store whenever it changes on disk.
 * The parent directory is watched so that editors which replace the file
 * by rename are still picked up.
 */
type Watcher struct {
	path    string
	store   *Store
	watcher *fsnotify.Watcher
	done    chan struct{}
	stopped chan struct{}
}

func NewWatcher(path string, store *Store) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{
		path:    abs,
		store:   store,
		watcher: fw,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.start()
	return w, nil
}

func (w *Watcher) start() {
	defer close(w.stopped)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			core.LogError("config watcher error: %s", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	c, err := Load(w.path)
	if err != nil {
		core.LogWarn("failed to reload %s: %s", w.path, err)
		return
	}
	if err := w.store.Apply(c); err == nil {
		core.LogInfo("configuration reloaded from %s", w.path)
	}
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	<-w.stopped
	return err
}
