// Package activitylog writes the append-only activity log: one event per
// line, timestamped, serialized by a dedicated mutex so concurrent
// writers (the REPL and worker goroutines) never interleave a line.
package activitylog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// DefaultFileName is the conventional log file name (spec §6).
const DefaultFileName = "activity.log"

// Log appends one line per event to an underlying file.
type Log struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// Open opens (creating if necessary) the append-only log at path.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("activitylog: open %s: %w", path, err)
	}

	return &Log{file: f, now: time.Now}, nil
}

// Close closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Event appends one line: "[<unix_time>] <event> <arg?>". arg is omitted
// entirely (along with its leading space) when empty.
func (l *Log) Event(event, arg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now().Unix()
	if arg == "" {
		fmt.Fprintf(l.file, "[%d] %s\n", ts, event)
		return
	}

	fmt.Fprintf(l.file, "[%d] %s %s\n", ts, event, arg)
}
