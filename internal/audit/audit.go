// Package audit provides an append-only JSONL audit trail of filter
// decisions, grounded on the teacher's internal/logger package.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/pathsentry/pathsentry/internal/redact"
)

// maxLogBytes is the file size at which the log is rotated.
const maxLogBytes = 10 * 1024 * 1024

// Event is a single audit record: one path decision.
type Event struct {
	Timestamp string `json:"timestamp"`
	Operation string `json:"operation"`
	Path      string `json:"path"`
	Verdict   string `json:"verdict"`
	Level     string `json:"level,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Source    string `json:"source,omitempty"`
}

// Logger appends Events to a JSONL file, rotating it once it grows past
// maxLogBytes.
type Logger struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// New opens (creating if necessary) the audit log at path.
func New(path string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return &Logger{path: path, file: file}, nil
}

func (l *Logger) rotateIfNeeded() error {
	info, err := l.file.Stat()
	if err != nil {
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < maxLogBytes {
		return nil
	}

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close log before rotation: %w", err)
	}

	rotated := l.path + ".1"
	_ = os.Remove(rotated)
	if err := os.Rename(l.path, rotated); err != nil {
		return fmt.Errorf("rotate log: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open fresh log after rotation: %w", err)
	}
	l.file = f
	return nil
}

// Log appends event, redacting credential-shaped substrings from Path and
// Reason first (a tool that classifies secret-shaped paths is exactly the
// place those path strings must not leak into the log in the clear).
func (l *Logger) Log(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.rotateIfNeeded(); err != nil {
		fmt.Fprintf(os.Stderr, "[pathsentry] warning: log rotation failed: %v\n", err)
	}

	event.Path = redact.Redact(event.Path)
	event.Reason = redact.Redact(event.Reason)

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = l.file.Write(data)
	return err
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
