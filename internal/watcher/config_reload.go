// config_reload.go implements debounced configuration hot reload.
package watcher

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"github.com/chatbridge/chatbridge/internal/config"
	log "github.com/sirupsen/logrus"
)

func (w *Watcher) stopConfigReloadTimer() {
	w.configReloadMu.Lock()
	if w.configReloadTimer != nil {
		w.configReloadTimer.Stop()
		w.configReloadTimer = nil
	}
	w.configReloadMu.Unlock()
}

func (w *Watcher) scheduleConfigReload() {
	w.configReloadMu.Lock()
	defer w.configReloadMu.Unlock()
	if w.configReloadTimer != nil {
		w.configReloadTimer.Stop()
	}
	w.configReloadTimer = time.AfterFunc(w.debounce, func() {
		w.configReloadMu.Lock()
		w.configReloadTimer = nil
		w.configReloadMu.Unlock()
		w.reloadConfigIfChanged()
	})
}

// reloadConfigIfChanged reloads only when the file content hash moved, and
// reports whether a reload happened.
func (w *Watcher) reloadConfigIfChanged() bool {
	newHash, err := fileHash(w.configPath)
	if err != nil {
		log.Errorf("failed to read config file for hash check: %v", err)
		return false
	}
	if newHash == "" {
		log.Debugf("ignoring empty config file write event")
		return false
	}

	w.mu.RLock()
	currentHash := w.lastConfigHash
	w.mu.RUnlock()
	if currentHash != "" && currentHash == newHash {
		log.Debugf("config file content unchanged (hash match), skipping reload")
		return false
	}

	log.Infof("config file changed, reloading: %s", w.configPath)
	newConfig, errLoad := config.LoadConfig(w.configPath)
	if errLoad != nil {
		log.Errorf("failed to reload config: %v", errLoad)
		return false
	}

	w.mu.Lock()
	oldConfig := w.config
	w.config = newConfig
	w.lastConfigHash = newHash
	w.mu.Unlock()

	if oldConfig != nil {
		for _, detail := range config.DiffConversion(oldConfig, newConfig) {
			log.Debugf("  %s", detail)
		}
		if oldConfig.Debug != newConfig.Debug {
			log.Debugf("log level updated - debug mode changed from %t to %t", oldConfig.Debug, newConfig.Debug)
		}
	}

	if w.reloadCallback != nil {
		w.reloadCallback(newConfig)
	}
	log.Info("config successfully reloaded")
	return true
}

// fileHash returns the hex sha256 of the file, or "" when it is empty.
func fileHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", nil
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
