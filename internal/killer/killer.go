// Package killer implements the Killer/Stopper (component G): graceful
// then forceful OS process termination, and container stop via the
// external runtime. All operations are idempotent against vanished
// targets, per spec §4.G and testable property 7.
package killer

import (
	"context"
	"errors"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/Emasoft/process-killer/internal/executil"
)

// Outcome is what the action log records for one kill attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNotFound
	OutcomePermissionDenied
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not_found"
	case OutcomePermissionDenied:
		return "permission_denied"
	default:
		return "failed"
	}
}

// DefaultGraceKill is the wait between SIGTERM and SIGKILL, spec §4.G's
// "grace_kill" (default 3s).
const DefaultGraceKill = 3 * time.Second

// Kill sends SIGTERM, waits up to graceKill for the process to exit,
// then sends SIGKILL if it is still alive. A process that has already
// vanished is reported as OutcomeNotFound, never an error — killing an
// already-dead PID is a no-op (testable property 7).
func Kill(pid int32, graceKill time.Duration) Outcome {
	if err := syscall.Kill(int(pid), syscall.SIGTERM); err != nil {
		return classifySignalError(err)
	}

	deadline := time.Now().Add(graceKill)
	for time.Now().Before(deadline) {
		if !alive(pid) {
			return OutcomeSuccess
		}
		time.Sleep(50 * time.Millisecond)
	}

	if !alive(pid) {
		return OutcomeSuccess
	}
	if err := syscall.Kill(int(pid), syscall.SIGKILL); err != nil {
		return classifySignalError(err)
	}
	return OutcomeSuccess
}

func alive(pid int32) bool {
	return syscall.Kill(int(pid), 0) == nil
}

func classifySignalError(err error) Outcome {
	if errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH) {
		return OutcomeNotFound
	}
	if errors.Is(err, syscall.EPERM) {
		return OutcomePermissionDenied
	}
	return OutcomeFailed
}

// StopContainer issues a bounded-timeout "docker stop" for the given
// container id, matching spec §6's "<runtime> stop --time <s> <id>"
// interface.
func StopContainer(ctx context.Context, id string, timeout time.Duration) Outcome {
	_, err := executil.Run(ctx, timeout+2*time.Second, "docker", "stop", "--time",
		durationSeconds(timeout), id)
	if err != nil {
		return OutcomeFailed
	}
	return OutcomeSuccess
}

func durationSeconds(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
