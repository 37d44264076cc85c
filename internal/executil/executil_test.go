package executil

import (
	"context"
	"testing"
	"time"
)

func TestRunEchoesArgsLiterally(t *testing.T) {
	out, err := Run(context.Background(), time.Second, "echo", "-n", "hello; rm -rf /")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(out) != "hello; rm -rf /" {
		t.Fatalf("expected argv to be passed literally with no shell interpretation, got %q", out)
	}
}

func TestRunTimeout(t *testing.T) {
	_, err := Run(context.Background(), 10*time.Millisecond, "sleep", "5")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestAvailableUnknownCommand(t *testing.T) {
	if Available("definitely-not-a-real-binary-xyz") {
		t.Fatalf("expected unknown binary to be unavailable")
	}
}
