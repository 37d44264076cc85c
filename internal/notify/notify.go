// Package notify sends the one-shot native desktop notification spec §6
// and §4.H describe, bounded to 2s with failures swallowed (spec §5).
// Per-OS implementations live in notify_linux.go (notify-send, grounded
// in adhamsalama-system-monitor__main.go and bisio-oom__main.go's
// exec.Command("notify-send", ...) pattern), notify_darwin.go
// (osascript, grounded in
// original_source/process_killer.py's notify()), and notify_other.go
// (no-op), mirroring the teacher's own per-OS build-tagged file split.
package notify

import (
	"context"
	"fmt"
	"time"
)

const title = "Process Killer"
const timeout = 2 * time.Second

// Send emits a notification summarizing a fingerprint's recidivism
// count. Errors are intentionally not returned to the caller at all,
// matching spec §5's "failures are swallowed".
func Send(ctx context.Context, fingerprint string, count int) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	body := fmt.Sprintf("%q killed %d times recently", fingerprint, count)
	_ = send(ctx, title, body)
}
