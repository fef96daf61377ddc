package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEnforceLogDirSizeLimit(t *testing.T) {
	type file struct {
		name  string
		size  int
		age   int64
		alive bool
	}
	cases := []struct {
		name     string
		files    []file
		maxBytes int64
		deleted  int
	}{
		{
			name: "oldest removed first, active log kept",
			files: []file{
				{name: "old.log", size: 60, age: 1},
				{name: "mid.log", size: 60, age: 2, alive: true},
				{name: "main.log", size: 60, age: 3, alive: true},
			},
			maxBytes: 120,
			deleted:  1,
		},
		{
			name: "active log kept even when it alone exceeds the cap",
			files: []file{
				{name: "main.log", size: 200, age: 1, alive: true},
				{name: "other.log", size: 50, age: 2},
			},
			maxBytes: 100,
			deleted:  1,
		},
		{
			name: "conversion logs count toward the cap",
			files: []file{
				{name: filepath.Join(ConversionLogDir, "request-openai-claude-a.log"), size: 50, age: 1},
				{name: filepath.Join(ConversionLogDir, "request-openai-claude-b.log"), size: 50, age: 2},
				{name: "main.log", size: 50, age: 3, alive: true},
				{name: filepath.Join(ConversionLogDir, "response-claude-openai-c.log"), size: 50, age: 4, alive: true},
			},
			maxBytes: 100,
			deleted:  2,
		},
		{
			name: "non-log files ignored",
			files: []file{
				{name: "notes.txt", size: 500, age: 1, alive: true},
				{name: "main.log", size: 10, age: 2, alive: true},
			},
			maxBytes: 100,
			deleted:  0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.MkdirAll(filepath.Join(dir, ConversionLogDir), 0o755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			for _, f := range tc.files {
				writeLogFile(t, filepath.Join(dir, f.name), f.size, time.Unix(f.age, 0))
			}

			deleted, err := enforceLogDirSizeLimit(dir, tc.maxBytes, filepath.Join(dir, "main.log"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if deleted != tc.deleted {
				t.Fatalf("deleted = %d, want %d", deleted, tc.deleted)
			}
			for _, f := range tc.files {
				_, errStat := os.Stat(filepath.Join(dir, f.name))
				if f.alive && errStat != nil {
					t.Fatalf("%s should remain: %v", f.name, errStat)
				}
				if !f.alive && !os.IsNotExist(errStat) {
					t.Fatalf("%s should be removed, stat error: %v", f.name, errStat)
				}
			}
		})
	}
}

func TestEnforceLogDirSizeLimitPrunesConversionLogs(t *testing.T) {
	dir := t.TempDir()
	logger := NewFileConversionLogger(true, dir, 0)
	for i := 0; i < 50; i++ {
		record := ConversionRecord{
			RequestID: fmt.Sprintf("id%02d", i),
			Direction: "request",
			From:      "openai",
			To:        "claude",
			Outcome:   "explicit",
			Input:     []byte(`{"messages":[{"role":"user","content":"hello there"}]}`),
			Output:    []byte(`{"messages":[{"role":"user","content":"hello there"}],"max_tokens":4096}`),
			Timestamp: time.Unix(1700000000+int64(i), 0),
		}
		if err := logger.LogConversion(record); err != nil {
			t.Fatalf("LogConversion: %v", err)
		}
	}

	deleted, err := enforceLogDirSizeLimit(dir, 1024, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted == 0 {
		t.Fatal("size cap did not prune conversion logs")
	}

	files, err := listLogFiles(filepath.Join(dir, ConversionLogDir))
	if err != nil {
		t.Fatalf("listLogFiles: %v", err)
	}
	var total int64
	for _, f := range files {
		total += f.size
	}
	if total > 1024 {
		t.Fatalf("conversion logs total %d bytes, want <= 1024", total)
	}
	if len(files)+deleted != 50 {
		t.Fatalf("remaining %d + deleted %d != 50", len(files), deleted)
	}
}

func TestEnforceLogDirSizeLimitMissingDirectory(t *testing.T) {
	deleted, err := enforceLogDirSizeLimit(filepath.Join(t.TempDir(), "absent"), 10, "")
	if err != nil || deleted != 0 {
		t.Fatalf("got (%d, %v), want (0, nil)", deleted, err)
	}
}

func writeLogFile(t *testing.T, path string, size int, modTime time.Time) {
	t.Helper()

	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("set times: %v", err)
	}
}
