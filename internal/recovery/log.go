// Package recovery implements the wallet's append-only, plaintext
// recovery log: the disaster-recovery record that must see every secret
// the wallet ever derives before that secret becomes economically
// significant. It is exposed as a narrow interface so the wallet can
// be tested against an in-memory log.
package recovery

import (
	"fmt"
	"os"
	"sync"
)

// Log appends a single line and durably flushes it before returning.
type Log interface {
	AppendLine(line string) error
	Close() error
}

// FileLog is the on-disk recovery log collaborator, backing the P.bak
// sibling file next to the wallet's database.
type FileLog struct {
	mu   sync.Mutex
	file *os.File
}

// OpenFileLog opens (creating if absent) an append-only log file at path.
func OpenFileLog(path string) (*FileLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("recovery: open log %s: %w", path, err)
	}
	return &FileLog{file: f}, nil
}

// AppendLine writes line followed by a newline and fsyncs before
// returning, so the caller's subsequent database mutation is guaranteed
// to observe a durable log entry first.
func (l *FileLog) AppendLine(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("recovery: write log line: %w", err)
	}
	return l.file.Sync()
}

// Close closes the underlying file.
func (l *FileLog) Close() error {
	return l.file.Close()
}

// MemLog is an in-memory Log for tests that need to assert on the
// recovery log's content without touching the filesystem, or that need
// to simulate a write failure.
type MemLog struct {
	mu    sync.Mutex
	Lines []string
	// FailNext, if set, causes the next AppendLine call to fail with this
	// error instead of recording the line, then clears itself.
	FailNext error
}

func (l *MemLog) AppendLine(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.FailNext != nil {
		err := l.FailNext
		l.FailNext = nil
		return err
	}
	l.Lines = append(l.Lines, line)
	return nil
}

// Close is a no-op; MemLog holds no file handle.
func (l *MemLog) Close() error {
	return nil
}
