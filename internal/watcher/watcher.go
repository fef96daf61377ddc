// Package watcher watches the configuration file and triggers hot reloads.
// It supports cross-platform fsnotify event handling.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/chatbridge/chatbridge/internal/config"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

const configReloadDebounce = 150 * time.Millisecond

// Watcher reloads the configuration when its file changes and hands the new
// value to the reload callback.
type Watcher struct {
	configPath        string
	reloadCallback    func(*config.Config)
	watcher           *fsnotify.Watcher
	mu                sync.RWMutex
	config            *config.Config
	lastConfigHash    string
	configReloadMu    sync.Mutex
	configReloadTimer *time.Timer
	debounce          time.Duration
}

// NewWatcher creates a watcher for configPath. reloadCallback runs on the timer
// goroutine after every successful reload.
func NewWatcher(configPath string, reloadCallback func(*config.Config)) (*Watcher, error) {
	fsWatcher, errNewWatcher := fsnotify.NewWatcher()
	if errNewWatcher != nil {
		return nil, errNewWatcher
	}
	return &Watcher{
		configPath:     filepath.Clean(configPath),
		reloadCallback: reloadCallback,
		watcher:        fsWatcher,
		debounce:       configReloadDebounce,
	}, nil
}

// SetConfig records the configuration currently in effect. Its file hash seeds
// change detection so an unchanged write does not trigger a reload.
func (w *Watcher) SetConfig(cfg *config.Config) {
	hash, _ := fileHash(w.configPath)
	w.mu.Lock()
	w.config = cfg
	w.lastConfigHash = hash
	w.mu.Unlock()
}

// Config returns the configuration currently in effect.
func (w *Watcher) Config() *config.Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// Start begins watching. The directory holding the file is watched so editors
// that replace the file by rename are still observed.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.configPath)
	if errAdd := w.watcher.Add(dir); errAdd != nil {
		log.Errorf("failed to watch config directory %s: %v", dir, errAdd)
		return errAdd
	}
	log.Debugf("watching config file: %s", w.configPath)

	go w.processEvents(ctx)
	return nil
}

// Stop stops the file watcher.
func (w *Watcher) Stop() error {
	w.stopConfigReloadTimer()
	return w.watcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case errWatch, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("file watcher error: %v", errWatch)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	configOps := fsnotify.Write | fsnotify.Create | fsnotify.Rename
	if filepath.Clean(event.Name) != w.configPath || event.Op&configOps == 0 {
		return
	}
	log.Debugf("config file change details - operation: %s, timestamp: %s", event.Op.String(), time.Now().Format("2006-01-02 15:04:05.000"))
	w.scheduleConfigReload()
}
