// Package audit records what the user did with a comparison (activations,
// selection exports and restores, reloads) as JSON Lines.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event names.
const (
	EventActivate = "activate"
	EventExport   = "export"
	EventRestore  = "restore"
	EventReload   = "reload"
)

// Entry is a single event record.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	Object    string    `json:"object,omitempty"`
	Count     int       `json:"count,omitempty"`
	Source    string    `json:"source"`
}

// Logger appends entries to a JSON Lines file. When a size limit is set the
// file is moved to path.1 before a line would push it past the limit.
type Logger struct {
	mu    sync.Mutex
	path  string
	limit int64 // bytes, 0 for unbounded
	file  *os.File
	size  int64
}

// New opens (or creates) the event log at path, creating missing parent
// directories with mode 0o700. The file itself is private (0o600). A
// positive maxSizeMB enables rotation.
func New(path string, maxSizeMB int) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("audit: create dir: %w", err)
	}
	l := &Logger{path: path}
	if maxSizeMB > 0 {
		l.limit = int64(maxSizeMB) << 20
	}
	if err := l.open(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Logger) open() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("audit: open file: %w", err)
	}
	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	l.file, l.size = f, size
	return nil
}

// Log appends e, stamping it with the current time when Timestamp is zero.
// Write failures are dropped; the event log never interrupts the UI. Log is
// safe for concurrent use and a no-op on a nil Logger.
func (l *Logger) Log(e Entry) {
	if l == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	line, err := json.Marshal(e)
	if err != nil {
		return
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.limit > 0 && l.size > 0 && l.size+int64(len(line)) > l.limit {
		if err := l.rotate(); err != nil {
			return
		}
	}
	if l.file == nil {
		return
	}
	n, _ := l.file.Write(line)
	l.size += int64(n)
}

// rotate moves the current file aside and starts an empty one.
func (l *Logger) rotate() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if err := os.Rename(l.path, l.path+".1"); err != nil {
		return err
	}
	return l.open()
}

// Close closes the file. It is a no-op on a nil Logger.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
