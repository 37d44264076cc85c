package actionlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteFormatsLineExactly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memory_leak_killer.log")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	at := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	if err := l.Write(at, "kill", 1234, "hog.py", ReasonLeak, 512.3, 6000.12); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "[2026-03-05 14:30:00] kill pid=1234 name=hog.py reason=leak rss=512.3 slope=6000.12\n"
	if string(data) != want {
		t.Fatalf("got %q, want %q", data, want)
	}
}

func TestWriteAppendsAcrossReopens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log")
	l1, _ := Open(path)
	l1.Write(time.Now(), "kill", 1, "a", ReasonPressure, 1, 1)
	l1.Close()

	l2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l2.Close()
	l2.Write(time.Now(), "kill", 2, "b", ReasonPredictive, 2, 2)

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines across reopen, got %d: %v", len(lines), lines)
	}
}
