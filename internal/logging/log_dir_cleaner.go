package logging

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const logDirCleanerInterval = time.Minute

var logDirCleanerCancel context.CancelFunc

// configureLogDirCleanerLocked (re)starts the background size cap for logDir.
// Callers hold writerMu.
func configureLogDirCleanerLocked(logDir string, maxTotalSizeMB int, protectedPath string) {
	stopLogDirCleanerLocked()

	dir := strings.TrimSpace(logDir)
	if maxTotalSizeMB <= 0 || dir == "" {
		return
	}
	maxBytes := int64(maxTotalSizeMB) << 20

	ctx, cancel := context.WithCancel(context.Background())
	logDirCleanerCancel = cancel
	go runLogDirCleaner(ctx, filepath.Clean(dir), maxBytes, strings.TrimSpace(protectedPath))
}

func stopLogDirCleanerLocked() {
	if logDirCleanerCancel != nil {
		logDirCleanerCancel()
		logDirCleanerCancel = nil
	}
}

func runLogDirCleaner(ctx context.Context, logDir string, maxBytes int64, protectedPath string) {
	ticker := time.NewTicker(logDirCleanerInterval)
	defer ticker.Stop()

	for {
		deleted, errClean := enforceLogDirSizeLimit(logDir, maxBytes, protectedPath)
		switch {
		case errClean != nil:
			log.WithError(errClean).Warn("logging: failed to enforce log directory size limit")
		case deleted > 0:
			log.Debugf("logging: removed %d old log file(s) to enforce log directory size limit", deleted)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

type logFile struct {
	path    string
	size    int64
	modTime time.Time
}

// enforceLogDirSizeLimit deletes the oldest log files until the log directory
// and its conversions subdirectory together fit in maxBytes. protectedPath,
// the active main log, is never deleted.
func enforceLogDirSizeLimit(logDir string, maxBytes int64, protectedPath string) (int, error) {
	dir := strings.TrimSpace(logDir)
	if maxBytes <= 0 || dir == "" {
		return 0, nil
	}
	dir = filepath.Clean(dir)

	files, errList := listLogFiles(dir)
	if errList != nil {
		return 0, errList
	}
	conversionFiles, errList := listLogFiles(filepath.Join(dir, ConversionLogDir))
	if errList != nil {
		return 0, errList
	}
	files = append(files, conversionFiles...)

	var total int64
	for _, f := range files {
		total += f.size
	}
	if total <= maxBytes {
		return 0, nil
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	if protectedPath != "" {
		protectedPath = filepath.Clean(protectedPath)
	}
	deleted := 0
	for _, f := range files {
		if total <= maxBytes {
			break
		}
		if f.path == protectedPath {
			continue
		}
		if errRemove := os.Remove(f.path); errRemove != nil {
			log.WithError(errRemove).Warnf("logging: failed to remove old log file: %s", filepath.Base(f.path))
			continue
		}
		total -= f.size
		deleted++
	}
	return deleted, nil
}

// listLogFiles returns the regular log files directly inside dir. A missing
// directory yields no files.
func listLogFiles(dir string) ([]logFile, error) {
	entries, errRead := os.ReadDir(dir)
	if errRead != nil {
		if os.IsNotExist(errRead) {
			return nil, nil
		}
		return nil, errRead
	}

	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() || !isLogFileName(entry.Name()) {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, logFile{
			path:    filepath.Join(dir, entry.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	return files, nil
}

func isLogFileName(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".log") || strings.HasSuffix(lower, ".log.gz")
}
