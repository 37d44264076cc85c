// Package executil is the small "external command" abstraction called
// for in spec §9's design notes: every subprocess this program invokes
// goes through here, argv-only, with an enforced timeout. No shell
// interpolation ever occurs.
package executil

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// Run executes name with args, bounded by timeout, and returns trimmed
// stdout. Stderr is discarded. Grounded in original_source/process_killer.py's
// subprocess.run([...], timeout=..., capture_output=True) calls for the
// container runtime and the Darwin notifier.
func Run(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = nil

	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(stdout.Bytes()), nil
}

// Available reports whether name resolves on PATH, used to silently
// disable container mode or a notifier backend rather than erroring.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
