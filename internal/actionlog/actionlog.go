// Package actionlog owns the single append-only action log file spec §6
// mandates, line-buffered with one writer (spec §9's design note: "a
// single process-wide log appender is acceptable because there is only
// one writer").
//
// This is implemented directly on the standard library rather than
// go.uber.org/zap: zap is for ambient structured operational logging
// (see internal/watchdog), but spec §6 fixes an exact, non-structured
// line format this program must reproduce byte-for-byte, and no logger
// in the example pack is a better fit for a hand-specified plain-text
// format than fmt.Fprintf onto a buffered writer — see DESIGN.md.
package actionlog

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Emasoft/process-killer/internal/output"
)

// Reason enumerates why a kill was issued, per spec §6's log line
// format.
type Reason string

const (
	ReasonLeak       Reason = "leak"
	ReasonPressure   Reason = "pressure"
	ReasonPredictive Reason = "predictive"
	ReasonRecidivist Reason = "recidivist"
)

// maxSizeBytes is the original_source/process_killer.py log() rotation
// ceiling (50MB); spec §6 is silent on rotation, so this supplements it
// as an ambient concern rather than a core invariant (see SPEC_FULL.md).
const maxSizeBytes = 50 * 1024 * 1024

// Log is the single writer for the action log file.
type Log struct {
	mu   sync.Mutex
	path string
	f    *os.File
	w    *bufio.Writer
	size int64
}

// Open opens (creating if necessary) the action log at path, appending.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Log{path: path, f: f, w: bufio.NewWriter(f), size: info.Size()}, nil
}

// Write appends one kill event line in spec §6's exact format:
// "[YYYY-MM-DD HH:MM:SS] <event> pid=<n> name=<s> reason=<...> rss=<MB> slope=<MB/min>"
func (l *Log) Write(at time.Time, event string, pid int32, name string, reason Reason, rssMB, slopeMBPerMin float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.rotateIfNeededLocked(); err != nil {
		return err
	}

	// name comes from the process's own argv/comm field, untrusted input
	// that must never be allowed to inject control characters into the
	// log file; sanitized the same way witr guards terminal output.
	line := fmt.Sprintf("[%s] %s pid=%d name=%s reason=%s rss=%.1f slope=%.2f\n",
		at.Format("2006-01-02 15:04:05"), event, pid, output.SanitizeTerminal(name), reason, rssMB, slopeMBPerMin)
	n, err := l.w.WriteString(line)
	l.size += int64(n)
	if err != nil {
		return err
	}
	return l.w.Flush() // line-buffered per spec §5
}

func (l *Log) rotateIfNeededLocked() error {
	if l.size < maxSizeBytes {
		return nil
	}
	if err := l.w.Flush(); err != nil {
		return err
	}
	if err := l.f.Close(); err != nil {
		return err
	}
	rotated := l.path + ".1"
	if err := os.Rename(l.path, rotated); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	l.f = f
	l.w = bufio.NewWriter(f)
	l.size = 0
	return nil
}

// Close flushes and closes the underlying file, called on graceful
// shutdown per spec §4.J's "on signal to terminate, flush the log and
// exit cleanly".
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.w.Flush(); err != nil {
		return err
	}
	return l.f.Close()
}
