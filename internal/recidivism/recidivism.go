// Package recidivism implements the Recidivism Tracker (component H):
// per-fingerprint rolling kill counts and threshold-triggered
// notifications.
package recidivism

import (
	"context"
	"strings"

	"github.com/Emasoft/process-killer/internal/model"
	"github.com/Emasoft/process-killer/internal/notify"
)

// Tracker owns one FingerprintCounter per normalized command line.
type Tracker struct {
	counters map[string]*model.FingerprintCounter

	NotifyThreshold int
	NotifyWindowSec float64

	// sendFunc is overridable for tests; defaults to notify.Send.
	sendFunc func(ctx context.Context, fingerprint string, count int)
}

func New(notifyThreshold int, notifyWindowSec float64) *Tracker {
	return &Tracker{
		counters:        make(map[string]*model.FingerprintCounter),
		NotifyThreshold: notifyThreshold,
		NotifyWindowSec: notifyWindowSec,
		sendFunc:        notify.Send,
	}
}

// Fingerprint normalizes a command line to its first n argv tokens
// (argv[0] included), each reduced to its basename, per spec §3's FingerprintCounter
// definition (spec.md is authoritative here over
// original_source/process_killer.py's differing (name, parent_name)
// key — see DESIGN.md).
func Fingerprint(argv []string, n int) string {
	if len(argv) == 0 {
		return ""
	}
	tokens := make([]string, 0, n)
	for i := 0; i < len(argv) && len(tokens) < n; i++ {
		tokens = append(tokens, basename(argv[i]))
	}
	return strings.Join(tokens, " ")
}

func basename(path string) string {
	i := strings.LastIndexByte(path, '/')
	return path[i+1:]
}

// RecordKill registers a kill against fingerprint's rolling window. If
// the trimmed count reaches NotifyThreshold, a notification fires and
// the FIFO resets to avoid storms (spec §4.H).
func (t *Tracker) RecordKill(ctx context.Context, fingerprint string, now float64) {
	c, ok := t.counters[fingerprint]
	if !ok {
		c = &model.FingerprintCounter{Fingerprint: fingerprint}
		t.counters[fingerprint] = c
	}
	c.KillTimes = append(c.KillTimes, now)
	c.Trim(now, t.NotifyWindowSec)

	if c.Count() >= t.NotifyThreshold {
		t.sendFunc(ctx, fingerprint, c.Count())
		c.Reset()
	}
}

// Count reports the current trimmed count for a fingerprint, for tests
// and the dashboard.
func (t *Tracker) Count(fingerprint string, now float64) int {
	c, ok := t.counters[fingerprint]
	if !ok {
		return 0
	}
	c.Trim(now, t.NotifyWindowSec)
	return c.Count()
}
