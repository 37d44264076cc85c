package killer

import (
	"os/exec"
	"testing"
	"time"
)

func TestKillAlreadyVanishedIsNotFound(t *testing.T) {
	// A pid that is essentially guaranteed not to exist.
	const bogusPID = 1 << 30
	got := Kill(bogusPID, 10*time.Millisecond)
	if got != OutcomeNotFound {
		t.Fatalf("expected OutcomeNotFound for a vanished pid, got %v", got)
	}
}

func TestKillGracefulThenForceful(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot spawn test process: %v", err)
	}
	pid := int32(cmd.Process.Pid)
	got := Kill(pid, 50*time.Millisecond)
	if got != OutcomeSuccess {
		t.Fatalf("expected OutcomeSuccess, got %v", got)
	}
	_ = cmd.Wait()
}

func TestDurationSecondsFloorsToOne(t *testing.T) {
	if got := durationSeconds(0); got != "1" {
		t.Fatalf("expected floor of 1s, got %q", got)
	}
	if got := durationSeconds(10 * time.Second); got != "10" {
		t.Fatalf("expected 10, got %q", got)
	}
}
