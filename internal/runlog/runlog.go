// Package runlog records a JSON run history for matcher invocations: one
// atomically-appended line per MatchTemplates/DetectTemplates call, so
// an operator can reconstruct what ran without re-running it. Each
// append rewrites the log through a temp file plus rename, so the log
// is replaced atomically.
package runlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Entry is one run record.
type Entry struct {
	ID             string  `json:"id"`
	Operation      string  `json:"operation"` // "match" or "detect"
	TemplatePath   string  `json:"template_path,omitempty"`
	TemplateCount  int     `json:"template_count"`
	DetectionCount int     `json:"detection_count"`
	DurationMS     float64 `json:"duration_ms"`
	Error          string  `json:"error,omitempty"`
}

// Log appends entries to a single file, one JSON object per line.
// Multiple goroutines may call Append concurrently.
type Log struct {
	mu   sync.Mutex
	path string
}

// Open returns a Log backed by path, creating its parent directory if
// necessary. The log file itself is created lazily on first Append.
func Open(path string) (*Log, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("runlog: create directory %s: %w", dir, err)
		}
	}
	return &Log{path: path}, nil
}

// Append assigns entry an id if it doesn't have one and appends it to
// the log. The append is durable: it is written to a temp file, synced,
// then the whole log (prior contents plus the new line) is installed by
// rename, so a crash mid-write cannot leave a partially-written line.
func (l *Log) Append(entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("runlog: marshal entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := os.ReadFile(l.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("runlog: read existing log: %w", err)
	}

	tempPath := l.path + ".tmp"
	f, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("runlog: create temp file: %w", err)
	}

	w := bufio.NewWriter(f)
	if len(existing) > 0 {
		if _, err := w.Write(existing); err != nil {
			f.Close()
			os.Remove(tempPath)
			return fmt.Errorf("runlog: write existing content: %w", err)
		}
	}
	if _, err := w.Write(line); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("runlog: write entry: %w", err)
	}
	if _, err := w.WriteString("\n"); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("runlog: write newline: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("runlog: flush: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("runlog: sync: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("runlog: close temp file: %w", err)
	}

	if err := os.Rename(tempPath, l.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("runlog: rename into place: %w", err)
	}

	slog.Debug("run logged", "id", entry.ID, "operation", entry.Operation, "detections", entry.DetectionCount)
	return nil
}

// ReadAll returns every entry in the log, oldest first.
func ReadAll(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("runlog: open %s: %w", path, err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("runlog: parse line: %w", err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("runlog: scan %s: %w", path, err)
	}
	return entries, nil
}
