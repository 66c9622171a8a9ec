package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadHandler is called when the config file has been reloaded successfully
type ReloadHandler func(cfg *Config)

// Watcher monitors the configuration file and reloads it on change.
// Editors typically replace the file with a rename or a burst of writes,
// so events are debounced before reloading.
type Watcher struct {
	path          string
	debounceDelay time.Duration
	handler       ReloadHandler
	watcher       *fsnotify.Watcher
	stopChan      chan struct{}
	doneChan      chan struct{}

	mu           sync.Mutex
	started      bool
	pendingTimer *time.Timer
}

// NewWatcher creates a new config file watcher
func NewWatcher(path string, debounceDelay time.Duration, handler ReloadHandler) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if debounceDelay <= 0 {
		debounceDelay = 500 * time.Millisecond
	}

	return &Watcher{
		path:          filepath.Clean(path),
		debounceDelay: debounceDelay,
		handler:       handler,
		watcher:       fsWatcher,
		stopChan:      make(chan struct{}),
		doneChan:      make(chan struct{}),
	}, nil
}

// Start begins watching the config file's directory for changes
func (w *Watcher) Start() error {
	// Watch the parent directory: editors that write via rename replace the
	// inode, which would silently drop a watch on the file itself.
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	w.mu.Lock()
	w.started = true
	w.mu.Unlock()
	go w.processEvents()

	slog.Info("config watcher started",
		"path", w.path,
		"debounce_seconds", w.debounceDelay.Seconds(),
	)

	return nil
}

// Stop stops watching the config file. It is safe to call even when Start
// never ran or failed, in which case it only releases the fsnotify watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	started := w.started
	if w.pendingTimer != nil {
		w.pendingTimer.Stop()
	}
	w.mu.Unlock()

	if started {
		close(w.stopChan)
		<-w.doneChan // Wait for event loop to finish
	}

	return w.watcher.Close()
}

// processEvents handles fsnotify events
func (w *Watcher) processEvents() {
	defer close(w.doneChan)

	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("config watcher error", "error", err)
		}
	}
}

// handleEvent processes a single fsnotify event
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
		slog.Debug("config file event detected", "event", event.Op.String())
		w.scheduleReload()
	}
}

// scheduleReload schedules a reload after the debounce delay
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pendingTimer != nil {
		w.pendingTimer.Stop()
	}

	w.pendingTimer = time.AfterFunc(w.debounceDelay, w.reload)
}

// reload re-reads the config file after the debounce period.
// On failure the previous config stays active.
func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		slog.Error("config reload failed, keeping previous config", "error", err)
		return
	}

	slog.Info("config reloaded", "path", w.path)
	w.handler(cfg)
}
