// Package logging provides conversion logging functionality for the chatbridge server.
// It handles capturing and storing the source and converted payloads of each
// conversion when enabled through configuration.
package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/pretty"
)

// ConversionLogDir is the subdirectory of the log directory that holds
// per-conversion log files.
const ConversionLogDir = "conversions"

var conversionLogID atomic.Uint64

var (
	unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\s]`)
	repeatedHyphens     = regexp.MustCompile(`-+`)
)

// ConversionRecord is one logged conversion.
type ConversionRecord struct {
	RequestID string
	Direction string
	From      string
	To        string
	Outcome   string
	Input     []byte
	Output    []byte
	Timestamp time.Time
}

// ConversionLogger records conversions.
type ConversionLogger interface {
	// LogConversion stores a single conversion record.
	LogConversion(record ConversionRecord) error

	// IsEnabled returns whether conversion logging is currently enabled.
	IsEnabled() bool
}

// FileConversionLogger implements ConversionLogger using one file per conversion.
type FileConversionLogger struct {
	mu sync.Mutex

	// enabled indicates whether conversion logging is currently enabled.
	enabled bool

	// logsDir is the directory where log files are stored.
	logsDir string

	// maxFiles limits the number of conversion log files retained. 0 keeps all.
	maxFiles int
}

// NewFileConversionLogger creates a new file-based conversion logger.
func NewFileConversionLogger(enabled bool, logsDir string, maxFiles int) *FileConversionLogger {
	return &FileConversionLogger{
		enabled:  enabled,
		logsDir:  filepath.Join(logsDir, ConversionLogDir),
		maxFiles: maxFiles,
	}
}

// IsEnabled returns whether conversion logging is enabled.
func (l *FileConversionLogger) IsEnabled() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// SetEnabled toggles conversion logging.
func (l *FileConversionLogger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// SetMaxFiles changes how many conversion log files are retained. 0 keeps all.
func (l *FileConversionLogger) SetMaxFiles(maxFiles int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maxFiles = maxFiles
}

// LogConversion writes the record to a new file in the logs directory.
func (l *FileConversionLogger) LogConversion(record ConversionRecord) error {
	if !l.IsEnabled() {
		return nil
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if err := os.MkdirAll(l.logsDir, 0o755); err != nil {
		return fmt.Errorf("logging: failed to create conversion log directory: %w", err)
	}

	path := filepath.Join(l.logsDir, l.generateFilename(record))
	if err := os.WriteFile(path, formatConversion(record), 0o644); err != nil {
		return fmt.Errorf("logging: failed to write conversion log: %w", err)
	}

	if err := l.cleanupOldLogs(); err != nil {
		log.WithError(err).Warn("logging: failed to clean up old conversion logs")
	}
	return nil
}

// generateFilename creates a sanitized filename from the record.
// Format: request-openai-claude-2026-03-02T104107-a1b2c3d4.log
func (l *FileConversionLogger) generateFilename(record ConversionRecord) string {
	base := sanitizeForFilename(strings.Join([]string{record.Direction, record.From, record.To}, "-"))
	timestamp := record.Timestamp.Format("2006-01-02T150405")

	idPart := record.RequestID
	if idPart == "" {
		idPart = fmt.Sprintf("%d", conversionLogID.Add(1))
	}
	return fmt.Sprintf("%s-%s-%s.log", base, timestamp, idPart)
}

// sanitizeForFilename replaces characters that are not safe for filenames.
func sanitizeForFilename(name string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(name, "-")
	sanitized = repeatedHyphens.ReplaceAllString(sanitized, "-")
	sanitized = strings.Trim(sanitized, "-")
	if sanitized == "" {
		sanitized = "conversion"
	}
	return sanitized
}

// cleanupOldLogs keeps only the newest maxFiles conversion log files.
func (l *FileConversionLogger) cleanupOldLogs() error {
	l.mu.Lock()
	maxFiles := l.maxFiles
	l.mu.Unlock()
	if maxFiles <= 0 {
		return nil
	}

	entries, errRead := os.ReadDir(l.logsDir)
	if errRead != nil {
		return errRead
	}

	type logFile struct {
		name    string
		modTime time.Time
	}

	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			continue
		}
		files = append(files, logFile{name: entry.Name(), modTime: info.ModTime()})
	}
	if len(files) <= maxFiles {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].name > files[j].name
		}
		return files[i].modTime.After(files[j].modTime)
	})
	for _, file := range files[maxFiles:] {
		if errRemove := os.Remove(filepath.Join(l.logsDir, file.name)); errRemove != nil {
			log.WithError(errRemove).Warnf("failed to remove old conversion log: %s", file.name)
		}
	}
	return nil
}

func formatConversion(record ConversionRecord) []byte {
	var buf bytes.Buffer
	buf.WriteString("=== CONVERSION ===\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", record.Timestamp.Format(time.RFC3339Nano))
	if record.RequestID != "" {
		fmt.Fprintf(&buf, "Request-ID: %s\n", record.RequestID)
	}
	fmt.Fprintf(&buf, "Direction: %s\n", record.Direction)
	fmt.Fprintf(&buf, "Pair: %s -> %s\n", record.From, record.To)
	fmt.Fprintf(&buf, "Outcome: %s\n\n", record.Outcome)

	buf.WriteString("=== INPUT ===\n")
	buf.Write(prettyPayload(record.Input))
	buf.WriteString("\n=== OUTPUT ===\n")
	buf.Write(prettyPayload(record.Output))
	buf.WriteString("\n")
	return buf.Bytes()
}

// prettyPayload indents JSON payloads and returns anything else unchanged.
func prettyPayload(payload []byte) []byte {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return []byte("<empty>\n")
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return pretty.Pretty(trimmed)
	}
	return append(trimmed, '\n')
}
