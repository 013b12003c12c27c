// Package audit appends one JSON line per CLI operation to an audit file.
package audit

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
)

// Logger records audit events. A nil *Logger records nothing.
type Logger struct {
	fs   billy.Filesystem
	path string
	now  func() time.Time
}

// New returns a Logger appending to path on fs.
func New(fs billy.Filesystem, path string) *Logger {
	return &Logger{fs: fs, path: path, now: time.Now}
}

// Path returns the audit file path.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Record appends {"event":..., "metadata":{...}, "time":...} to the audit file.
// Each event is written with a single append so concurrent writers do not interleave lines.
func (l *Logger) Record(event string, metadata map[string]any) error {
	if l == nil {
		return nil
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	zl.Log().
		Str("event", event).
		Interface("metadata", metadata).
		Time("time", l.now().UTC()).
		Send()

	f, err := l.fs.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log %s: %w", l.path, err)
	}
	defer f.Close()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write audit log %s: %w", l.path, err)
	}
	return nil
}
