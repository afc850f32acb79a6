// Package log provides the debug logger that lazycommit operations receive
// by injection. There is no package-level logger; each caller is handed an
// instance through its constructor.
package log

import (
	"log"
	"os"
	"sync"
)

// DebugLogger handles debug logging to file and/or buffering.
// It implements io.Writer to be compatible with standard log.Logger.
// A nil *DebugLogger is valid and drops everything written to it.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	buffer  []byte
	discard bool

	std *log.Logger
}

// New returns a logger that buffers writes until SetFile points it at a path.
func New() *DebugLogger {
	l := &DebugLogger{}
	l.std = log.New(l, "", log.LstdFlags|log.Lmicroseconds)
	return l
}

// Write implements io.Writer.
// It writes to the file if set, otherwise appends to the buffer.
func (l *DebugLogger) Write(p []byte) (n int, err error) {
	if l == nil {
		return len(p), nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.discard {
		return len(p), nil
	}

	if l.file != nil {
		n, err = l.file.Write(p)
		// Sync to disk to ensure messages are written immediately
		// ignoring sync errors as they are not critical for logging
		_ = l.file.Sync()
		return n, err
	}

	// Buffer the output
	// Need to copy because p might be reused by the caller
	b := make([]byte, len(p))
	copy(b, p)
	l.buffer = append(l.buffer, b...)
	return len(p), nil
}

// SetFile sets the debug log file path. Creates the file if it doesn't exist.
// If path is empty, discards all buffered logs and future logs.
func (l *DebugLogger) SetFile(path string) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Close any previously opened file.
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}

	if path == "" {
		l.discard = true
		l.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		l.discard = true
		l.buffer = nil
		return err
	}

	l.file = f
	l.discard = false

	// Flush buffer to file.
	if len(l.buffer) > 0 {
		_, _ = f.Write(l.buffer)
		_ = f.Sync()
		l.buffer = nil
	}

	return nil
}

// Printf writes a formatted debug message via the standard logger.
func (l *DebugLogger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	l.std.Printf(format, args...)
}

// Println writes a debug message via the standard logger.
func (l *DebugLogger) Println(v ...any) {
	if l == nil {
		return
	}
	l.std.Println(v...)
}

// Close closes the debug log file if open.
func (l *DebugLogger) Close() error {
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
